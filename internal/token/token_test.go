package token_test

import (
	"errors"
	"testing"

	"tagalert/internal/token"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		messageID int
		chatID    int64
	}{
		{name: "small group", messageID: 10, chatID: -100},
		{name: "supergroup", messageID: 123456, chatID: -1001234567890},
		{name: "message id one", messageID: 1, chatID: -42},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			payload := token.Encode(tc.messageID, tc.chatID)

			messageID, chatID, err := token.Decode(payload)
			if err != nil {
				t.Fatalf("Decode(%q) returned error: %v", payload, err)
			}
			if messageID != tc.messageID || chatID != tc.chatID {
				t.Fatalf("Decode(%q) = (%d, %d), want (%d, %d)",
					payload, messageID, chatID, tc.messageID, tc.chatID)
			}
		})
	}
}

func TestEncodeWireFormat(t *testing.T) {
	t.Parallel()

	got := token.Encode(10, -100)
	want := "/retrieve_10_100"
	if got != want {
		t.Fatalf("Encode(10, -100) = %q, want %q", got, want)
	}
}

func TestDecodeRejectsMalformedPayloads(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		payload string
	}{
		{name: "empty", payload: ""},
		{name: "marker only", payload: "/retrieve"},
		{name: "missing chat id", payload: "/retrieve_10"},
		{name: "wrong marker", payload: "/other_10_100"},
		{name: "missing leading slash", payload: "retrieve_10_100"},
		{name: "non-numeric message id", payload: "/retrieve_abc_100"},
		{name: "non-numeric chat id", payload: "/retrieve_10_xyz"},
		{name: "too many fields", payload: "/retrieve_10_100_7"},
		{name: "unrelated payload", payload: "some random callback data"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			_, _, err := token.Decode(tc.payload)
			if err == nil {
				t.Fatalf("Decode(%q) succeeded, want error", tc.payload)
			}
			if !errors.Is(err, token.ErrInvalidToken) {
				t.Fatalf("Decode(%q) error = %v, want ErrInvalidToken", tc.payload, err)
			}
		})
	}
}
