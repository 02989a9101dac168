package notification

import (
	"errors"
	"testing"
)

func TestParseChannel(t *testing.T) {
	tests := []struct {
		in      string
		want    Channel
		wantErr bool
	}{
		{"email", ChannelEmail, false},
		{"sms", ChannelSMS, false},
		{"EMAIL", ChannelEmail, false},
		{" Sms ", ChannelSMS, false},
		{"push", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		got, err := ParseChannel(tt.in)
		if tt.wantErr {
			if !errors.Is(err, ErrInvalidChannel) {
				t.Errorf("ParseChannel(%q): expected ErrInvalidChannel, got %v", tt.in, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseChannel(%q): %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseChannel(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}
