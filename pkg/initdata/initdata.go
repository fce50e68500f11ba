// Package initdata verifies Telegram Mini App init data. The payload is a
// query string whose "hash" field is an HMAC-SHA256 over the remaining
// key=value pairs, keyed by HMAC-SHA256("WebAppData", botToken).
package initdata

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"
)

var (
	ErrMissingHash = errors.New("init data: missing hash")
	ErrInvalidHash = errors.New("init data: hash mismatch")
	ErrExpired     = errors.New("init data: expired")
	ErrNoUser      = errors.New("init data: user field missing")
	ErrMalformed   = errors.New("init data: malformed payload")
)

// User is the identity embedded in the "user" field of init data.
type User struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// Verifier checks init data signatures for a single bot. The zero value is
// unusable; construct with NewVerifier so the secret is derived once.
type Verifier struct {
	secret []byte
	maxAge time.Duration
	now    func() time.Time
}

const DefaultMaxAge = 5 * time.Minute

func NewVerifier(botToken string, maxAge time.Duration) *Verifier {
	if maxAge <= 0 {
		maxAge = DefaultMaxAge
	}
	mac := hmac.New(sha256.New, []byte("WebAppData"))
	mac.Write([]byte(botToken))
	return &Verifier{
		secret: mac.Sum(nil),
		maxAge: maxAge,
		now:    time.Now,
	}
}

// Verify validates the signature and freshness of raw init data and returns
// the parsed fields, including the embedded user.
func (v *Verifier) Verify(initData string) (map[string]string, *User, error) {
	values, err := url.ParseQuery(initData)
	if err != nil {
		return nil, nil, ErrMalformed
	}

	fields := make(map[string]string, len(values))
	for k := range values {
		fields[k] = values.Get(k)
	}

	receivedHash, ok := fields["hash"]
	if !ok || receivedHash == "" {
		return nil, nil, ErrMissingHash
	}
	delete(fields, "hash")

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, fmt.Sprintf("%s=%s", k, fields[k]))
	}
	checkString := strings.Join(pairs, "\n")

	mac := hmac.New(sha256.New, v.secret)
	mac.Write([]byte(checkString))
	expected := hex.EncodeToString(mac.Sum(nil))

	if !hmac.Equal([]byte(expected), []byte(receivedHash)) {
		return nil, nil, ErrInvalidHash
	}

	if authDate, ok := fields["auth_date"]; ok {
		ts, err := strconv.ParseInt(authDate, 10, 64)
		if err != nil {
			return nil, nil, ErrMalformed
		}
		if v.now().Sub(time.Unix(ts, 0)) > v.maxAge {
			return nil, nil, ErrExpired
		}
	}

	userJSON, ok := fields["user"]
	if !ok {
		return nil, nil, ErrNoUser
	}

	var user User
	if err := json.Unmarshal([]byte(userJSON), &user); err != nil {
		return nil, nil, ErrMalformed
	}

	return fields, &user, nil
}

// Sign produces a valid hash for the given fields. Intended for tests and
// local tooling that must forge init data for a known bot token.
func Sign(fields map[string]string, botToken string) string {
	mac := hmac.New(sha256.New, []byte("WebAppData"))
	mac.Write([]byte(botToken))
	secret := mac.Sum(nil)

	keys := make([]string, 0, len(fields))
	for k := range fields {
		if k == "hash" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, fmt.Sprintf("%s=%s", k, fields[k]))
	}

	sig := hmac.New(sha256.New, secret)
	sig.Write([]byte(strings.Join(pairs, "\n")))
	return hex.EncodeToString(sig.Sum(nil))
}
