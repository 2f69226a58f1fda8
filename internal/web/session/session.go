// Package session stores the per visitor state in the configured fiber
// storage backend, keyed by a random session cookie.
package session

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/storage"
	"github.com/pkg/errors"

	"github.com/AlphaAutos/AlphaAutos/internal/db/models"
)

// CookieName is the name of the session cookie.
const CookieName = "session"

// LocalsKey is where the auth middleware stores the decoded session for
// downstream handlers.
const LocalsKey = "session"

// Data is everything kept for a logged in visitor.
type Data struct {
	User models.User
	// FirstVisit is when the session was created.
	FirstVisit time.Time
	// PageViews counts rendered pages in this session.
	PageViews int
}

// GenerateSessionID returns a cryptographically random session identifier.
func GenerateSessionID() (string, error) {
	raw := make([]byte, 32)

	_, err := rand.Read(raw)
	if err != nil {
		return "", errors.Wrap(err, "reading random bytes")
	}

	return hex.EncodeToString(raw), nil
}

// Init creates a fresh session for the user, persists it and sets the
// session cookie on the response. The cookie is marked Secure unless the
// server runs in dev mode, where it would break plain http logins.
func Init(c *fiber.Ctx, store storage.Storage, user models.User, expiry time.Duration, secure bool) error {
	id, err := GenerateSessionID()
	if err != nil {
		return err
	}

	data := Data{
		User:       user,
		FirstVisit: time.Now(),
	}

	err = Write(store, id, data, expiry)
	if err != nil {
		return err
	}

	c.Cookie(&fiber.Cookie{
		Name:     CookieName,
		Value:    id,
		Expires:  time.Now().Add(expiry),
		HTTPOnly: true,
		Secure:   secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})

	return nil
}

// Write persists the session data under the given identifier.
func Write(store storage.Storage, id string, data Data, expiry time.Duration) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return errors.Wrap(err, "marshalling session data")
	}

	err = store.Set(id, raw, expiry)
	if err != nil {
		return errors.Wrap(err, "storing session data")
	}

	return nil
}

// Read loads the session data for the identifier. A missing session is
// reported as ErrNoSession.
func Read(store storage.Storage, id string) (*Data, error) {
	raw, err := store.Get(id)
	if err != nil {
		return nil, errors.Wrap(err, "loading session data")
	}

	if len(raw) == 0 {
		return nil, ErrNoSession
	}

	var data Data

	err = json.Unmarshal(raw, &data)
	if err != nil {
		return nil, errors.Wrap(err, "unmarshalling session data")
	}

	return &data, nil
}

// Destroy removes the session from the store and clears the cookie.
func Destroy(c *fiber.Ctx, store storage.Storage) error {
	id := c.Cookies(CookieName)
	if id != "" {
		err := store.Delete(id)
		if err != nil {
			return errors.Wrap(err, "deleting session data")
		}
	}

	c.ClearCookie(CookieName)

	return nil
}

// FromCtx returns the session the auth middleware decoded for this request,
// or nil when the request is anonymous.
func FromCtx(c *fiber.Ctx) *Data {
	data, ok := c.Locals(LocalsKey).(*Data)
	if !ok {
		return nil
	}

	return data
}
