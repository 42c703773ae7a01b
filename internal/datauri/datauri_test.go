package datauri

import (
	"bytes"
	"errors"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantMIME string
		wantData []byte
		wantErr  bool
	}{
		{
			name:     "png base64",
			input:    "data:image/png;base64,iVBORw0K",
			wantMIME: "image/png",
			wantData: []byte{0x89, 'P', 'N', 'G', '\r', '\n'},
		},
		{
			name:     "unpadded base64",
			input:    "data:text/plain;base64,aGk",
			wantMIME: "text/plain",
			wantData: []byte("hi"),
		},
		{
			name:     "padded base64",
			input:    "data:text/plain;base64,aGk=",
			wantMIME: "text/plain",
			wantData: []byte("hi"),
		},
		{
			name:     "extra params",
			input:    "data:image/jpeg;name=x.jpg;base64,aGk=",
			wantMIME: "image/jpeg",
			wantData: []byte("hi"),
		},
		{
			name:     "percent encoded",
			input:    "data:,hello%20world",
			wantMIME: DefaultMIME,
			wantData: []byte("hello world"),
		},
		{
			name:     "uppercase scheme",
			input:    "DATA:image/png;BASE64,aGk=",
			wantMIME: "image/png",
			wantData: []byte("hi"),
		},
		{
			name:    "no prefix",
			input:   "https://example.com/a.png",
			wantErr: true,
		},
		{
			name:    "no comma",
			input:   "data:image/png;base64",
			wantErr: true,
		},
		{
			name:    "bad base64",
			input:   "data:image/png;base64,!!!",
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mime, data, err := Parse(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrMalformed) {
					t.Fatalf("expected ErrMalformed, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if mime != tt.wantMIME {
				t.Errorf("mime: got %q, want %q", mime, tt.wantMIME)
			}
			if !bytes.Equal(data, tt.wantData) {
				t.Errorf("data: got %v, want %v", data, tt.wantData)
			}
		})
	}
}

func TestEncode_ThenParse(t *testing.T) {
	payload := []byte{0, 1, 2, 250, 251, 252, 253}
	uri := Encode("image/png", payload)
	if !IsDataURI(uri) {
		t.Fatalf("Encode produced %q", uri)
	}
	mime, data, err := Parse(uri)
	if err != nil {
		t.Fatal(err)
	}
	if mime != "image/png" || !bytes.Equal(data, payload) {
		t.Errorf("got (%q, %v), want (image/png, %v)", mime, data, payload)
	}
}

func TestEncode_Format(t *testing.T) {
	if got := Encode("image/png", []byte("hi")); got != "data:image/png;base64,aGk=" {
		t.Errorf("got %q", got)
	}
}
