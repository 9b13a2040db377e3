package nabdasdk

import (
	"bytes"
	"encoding/json"
)

// User is the authenticated dashboard account.
type User struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	Email            string `json:"email"`
	Phone            string `json:"phone"`
	TwoFactorEnabled bool   `json:"twoFactorEnabled"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

type RegisterResponse struct {
	Message string `json:"message"`
}

type VerifyOTPRequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

type SelectInstanceRequest struct {
	InstanceID string `json:"instanceId"`
}

type RequestResetRequest struct {
	Email string `json:"email"`
}

type ResetPasswordRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"newPassword"`
}

// TokenField records which field a login response carried its credential in.
type TokenField int

const (
	TokenFieldNone TokenField = iota
	TokenFieldAccessToken
	TokenFieldLegacyAccessToken
)

func (f TokenField) String() string {
	switch f {
	case TokenFieldAccessToken:
		return "accessToken"
	case TokenFieldLegacyAccessToken:
		return "access_token"
	default:
		return "none"
	}
}

// LoginResponse is returned by login and OTP verification. The backend has
// shipped the credential as both accessToken and access_token; decoding
// accepts either, preferring accessToken.
type LoginResponse struct {
	AccessToken string
	TokenField  TokenField

	// User is nil when the response did not embed the account.
	User *User

	// Raw is the undecoded payload, for auxiliary fields such as second
	// factor hints.
	Raw json.RawMessage
}

func (r *LoginResponse) UnmarshalJSON(data []byte) error {
	var wire struct {
		AccessToken       string          `json:"accessToken"`
		LegacyAccessToken string          `json:"access_token"`
		User              json.RawMessage `json:"user"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}

	*r = LoginResponse{Raw: append(json.RawMessage(nil), data...)}

	switch {
	case wire.AccessToken != "":
		r.AccessToken, r.TokenField = wire.AccessToken, TokenFieldAccessToken
	case wire.LegacyAccessToken != "":
		r.AccessToken, r.TokenField = wire.LegacyAccessToken, TokenFieldLegacyAccessToken
	}

	if len(wire.User) > 0 && !bytes.Equal(bytes.TrimSpace(wire.User), []byte("null")) {
		var u User
		if err := json.Unmarshal(wire.User, &u); err != nil {
			return err
		}
		r.User = &u
	}
	return nil
}

// Field decodes an auxiliary top level field of the raw response into v. It
// reports false when the field is absent.
func (r *LoginResponse) Field(name string, v any) (bool, error) {
	if len(r.Raw) == 0 {
		return false, nil
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(r.Raw, &fields); err != nil {
		return false, err
	}
	raw, ok := fields[name]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, v)
}

type MessageStatus string

const (
	MessageQueued  MessageStatus = "queued"
	MessageSent    MessageStatus = "sent"
	MessageInvalid MessageStatus = "invalid"
)

type Message struct {
	ID        string        `json:"id"`
	Phone     string        `json:"phone"`
	Message   string        `json:"message"`
	Status    MessageStatus `json:"status"`
	CreatedAt string        `json:"createdAt"`
}

type MessagesQuery struct {
	Status string
	Page   int
	Limit  int
}

type MessagesPage struct {
	Data  []Message `json:"data"`
	Total int       `json:"total"`
	Page  int       `json:"page"`
	Limit int       `json:"limit"`
}

type ProfileUpdate struct {
	Name  *string `json:"name,omitempty"`
	Phone *string `json:"phone,omitempty"`
	Email *string `json:"email,omitempty"`
}

type PasswordChange struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

type Plan struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Price    float64  `json:"price"`
	Features []string `json:"features"`
}

type Invoice struct {
	ID        string  `json:"id"`
	Amount    float64 `json:"amount"`
	Currency  string  `json:"currency"`
	Status    string  `json:"status"`
	CreatedAt string  `json:"createdAt"`
	PDFURL    string  `json:"pdfUrl,omitempty"`
}

type WhatsAppStatus struct {
	Connected        bool   `json:"connected"`
	Phone            string `json:"phone,omitempty"`
	SessionExpiresIn string `json:"sessionExpiresIn,omitempty"`
}

type WhatsAppQR struct {
	QR string `json:"qr"`
}

type HealthStatus struct {
	Status string `json:"status"`
}
