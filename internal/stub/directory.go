package stub

import (
	"errors"
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/aussiebroadwan/openrestauth/pkg/authsdk"
)

// Namespaces reported in the user reference of each login method.
const (
	NamespaceOpenrest = "com.openrest"
	NamespaceGoogle   = "com.google"
	NamespaceFacebook = "com.facebook"
	NamespaceWix      = "com.wix"
)

// User is a username/password account.
type User struct {
	Username     string `toml:"username"`
	PasswordHash string `toml:"password_hash"`
	ID           string `toml:"id"`
}

// Federated maps a third-party credential to a user id. Audience is the
// Google client id or the Wix app key; empty matches any.
type Federated struct {
	Method   string `toml:"method"`
	Token    string `toml:"token"`
	Audience string `toml:"audience"`
	ID       string `toml:"id"`
}

// Directory is the stub's user database, loaded from TOML:
//
//	[[users]]
//	username = "alice"
//	password_hash = "$argon2id$v=19$m=19456,t=2,p=1$..."
//	id = "alice@example.com"
//
//	[[federated]]
//	method = "google.login"
//	token = "google-id-token"
//	audience = "client-id"
//	id = "alice@example.com"
type Directory struct {
	Users     []User      `toml:"users"`
	Federated []Federated `toml:"federated"`
}

// LoadDirectory reads and validates a directory file.
func LoadDirectory(path string) (*Directory, error) {
	var dir Directory
	meta, err := toml.DecodeFile(path, &dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", path, err)
	}
	if err := checkUndecoded(meta); err != nil {
		return nil, fmt.Errorf("directory %s: %w", path, err)
	}
	if err := dir.Validate(); err != nil {
		return nil, fmt.Errorf("directory %s: %w", path, err)
	}
	return &dir, nil
}

// ParseDirectory decodes a directory from TOML text.
func ParseDirectory(data string) (*Directory, error) {
	var dir Directory
	meta, err := toml.Decode(data, &dir)
	if err != nil {
		return nil, fmt.Errorf("failed to parse directory: %w", err)
	}
	if err := checkUndecoded(meta); err != nil {
		return nil, err
	}
	if err := dir.Validate(); err != nil {
		return nil, err
	}
	return &dir, nil
}

func checkUndecoded(meta toml.MetaData) error {
	undecoded := meta.Undecoded()
	if len(undecoded) == 0 {
		return nil
	}

	keys := make([]string, len(undecoded))
	for i, k := range undecoded {
		keys[i] = k.String()
	}
	return fmt.Errorf("unknown keys: %s", strings.Join(keys, ", "))
}

// Validate checks that every entry is complete and usernames are unique.
func (d *Directory) Validate() error {
	var errs []error

	seen := make(map[string]bool, len(d.Users))
	for i, u := range d.Users {
		switch {
		case u.Username == "":
			errs = append(errs, fmt.Errorf("users[%d]: username is required", i))
		case seen[u.Username]:
			errs = append(errs, fmt.Errorf("users[%d]: duplicate username %q", i, u.Username))
		}
		seen[u.Username] = true

		if u.PasswordHash == "" {
			errs = append(errs, fmt.Errorf("users[%d]: password_hash is required", i))
		}
		if u.ID == "" {
			errs = append(errs, fmt.Errorf("users[%d]: id is required", i))
		}
	}

	for i, f := range d.Federated {
		if _, err := federatedNamespace(f.Method); err != nil {
			errs = append(errs, fmt.Errorf("federated[%d]: %w", i, err))
		}
		if f.Token == "" {
			errs = append(errs, fmt.Errorf("federated[%d]: token is required", i))
		}
		if f.ID == "" {
			errs = append(errs, fmt.Errorf("federated[%d]: id is required", i))
		}
	}

	return errors.Join(errs...)
}

// FindUser returns the account with the given username.
func (d *Directory) FindUser(username string) (User, bool) {
	for _, u := range d.Users {
		if u.Username == username {
			return u, true
		}
	}
	return User{}, false
}

// FindFederated returns the user a third-party credential belongs to.
func (d *Directory) FindFederated(method authsdk.LoginMethod, token, audience string) (authsdk.UserRef, bool) {
	ns, err := federatedNamespace(method.String())
	if err != nil {
		return authsdk.UserRef{}, false
	}

	for _, f := range d.Federated {
		if f.Method != method.String() || f.Token != token {
			continue
		}
		if f.Audience != "" && f.Audience != audience {
			continue
		}
		return authsdk.UserRef{NS: ns, ID: f.ID}, true
	}
	return authsdk.UserRef{}, false
}

func federatedNamespace(method string) (string, error) {
	switch authsdk.LoginMethod(method) {
	case authsdk.MethodGoogle:
		return NamespaceGoogle, nil
	case authsdk.MethodFacebook:
		return NamespaceFacebook, nil
	case authsdk.MethodWix:
		return NamespaceWix, nil
	default:
		return "", fmt.Errorf("unsupported federated method %q", method)
	}
}
