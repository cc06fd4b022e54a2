package database

import (
	"net/url"
	"testing"
)

func TestStartKeepAliveRejectsBadSpec(t *testing.T) {
	if _, err := StartKeepAlive(nil, "every now and then"); err == nil {
		t.Fatal("expected parse error for malformed schedule")
	}
}

func TestBuildDSNUsesEnv(t *testing.T) {
	t.Setenv("DB_USER", "kiosk")
	t.Setenv("DB_PASSWORD", "p@ss/w#rd:1")
	t.Setenv("DB_HOST", "db.example")
	t.Setenv("DB_PORT", "6543")
	t.Setenv("DB_NAME", "postgres")
	t.Setenv("DB_SSLMODE", "disable")
	t.Setenv("DB_STATEMENT_TIMEOUT_MS", "1500")

	u, err := url.Parse(BuildDSN())
	if err != nil {
		t.Fatalf("dsn does not parse: %v", err)
	}
	if u.Scheme != "postgres" || u.Host != "db.example:6543" || u.Path != "/postgres" {
		t.Fatalf("unexpected dsn %s", u)
	}
	if pw, _ := u.User.Password(); u.User.Username() != "kiosk" || pw != "p@ss/w#rd:1" {
		t.Fatalf("credentials did not round-trip: %q / %q", u.User.Username(), pw)
	}
	q := u.Query()
	if q.Get("sslmode") != "disable" || q.Get("application_name") != "dochadzka" ||
		q.Get("options") != "-c statement_timeout=1500" {
		t.Fatalf("unexpected query %v", q)
	}
}
