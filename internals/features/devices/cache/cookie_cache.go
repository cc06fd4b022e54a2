package cache

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

const CookieName = "device_code"

// CookieCache keeps the authorization in the device_code cookie of one
// request. The cookie is encrypted by the encryptcookie middleware, so a
// value can only come from an earlier successful gate check.
type CookieCache struct {
	C      *fiber.Ctx
	Loc    *time.Location
	Secure bool
}

func NewCookieCache(c *fiber.Ctx, loc *time.Location, secure bool) *CookieCache {
	return &CookieCache{C: c, Loc: loc, Secure: secure}
}

func (k *CookieCache) Get() (Authorization, bool, error) {
	v := k.C.Cookies(CookieName)
	if v == "" {
		return Authorization{}, false, nil
	}
	a, err := Decode(v)
	if err != nil {
		return Authorization{}, false, err
	}
	return a, true, nil
}

func (k *CookieCache) Set(a Authorization) error {
	if a.Code == "" {
		return ErrMalformed
	}
	ck := &fiber.Cookie{
		Name:     CookieName,
		Value:    a.Encode(),
		Path:     "/",
		HTTPOnly: true,
		Secure:   k.Secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	}
	if exp := a.Expires(k.Loc); !exp.IsZero() {
		ck.Expires = exp
	} else {
		ck.MaxAge = int((365 * 24 * time.Hour).Seconds())
	}
	k.C.Cookie(ck)
	return nil
}

func (k *CookieCache) Clear() error {
	k.C.Cookie(&fiber.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		HTTPOnly: true,
		Secure:   k.Secure,
		SameSite: fiber.CookieSameSiteLaxMode,
		Expires:  time.Unix(0, 0),
	})
	return nil
}
