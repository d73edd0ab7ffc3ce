package user

import (
	"net/mail"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"sportsched/internal/domain/apperr"
)

// Max length constants for user-editable fields.
const (
	MaxEmailLength    = 254
	MinPasswordLength = 6
)

// Role constants
const (
	RoleAdmin  = "admin"
	RolePlayer = "player"
)

// ValidRoles contains all valid role values.
var ValidRoles = []string{RoleAdmin, RolePlayer}

// Validation messages shown on the sign-up and sign-in forms.
const (
	MsgNameRequired     = "Name is required"
	MsgEmailInvalid     = "Valid email is required"
	MsgPasswordTooShort = "Password must be at least 6 characters"
	MsgPasswordRequired = "Password is required"
	MsgRoleRequired     = "Role is required"
)

// PasswordCost is the bcrypt cost used by SetPassword. Tests lower it.
var PasswordCost = bcrypt.DefaultCost

// User holds state for the User concept.
type User struct {
	ID           string
	Name         string
	Email        string // normalized
	PasswordHash string
	Role         string // admin, player
	CreatedAt    time.Time
}

// SetPassword hashes and stores a password using bcrypt.
// PRE: plaintext has already passed ValidateSignUp
// POST: PasswordHash is set to a salted bcrypt hash
func (u *User) SetPassword(plaintext string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), PasswordCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hash)
	return nil
}

// CheckPassword verifies a plaintext password against the stored hash.
// INVARIANT: User fields are not mutated
func (u *User) CheckPassword(plaintext string) bool {
	if u.PasswordHash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(plaintext)) == nil
}

// IsAdmin returns true if the user has admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// ValidateSignUp checks sign-up input and returns a ValidationError listing every violated rule.
// The returned email is normalized and only meaningful when err is nil.
func ValidateSignUp(name, email, password, role string) (string, error) {
	var msgs []string
	if strings.TrimSpace(name) == "" {
		msgs = append(msgs, MsgNameRequired)
	}
	normalized, ok := NormalizeEmail(email)
	if !ok {
		msgs = append(msgs, MsgEmailInvalid)
	}
	if len(password) < MinPasswordLength {
		msgs = append(msgs, MsgPasswordTooShort)
	}
	if !IsValidRole(role) {
		msgs = append(msgs, MsgRoleRequired)
	}
	return normalized, apperr.Validation(msgs...)
}

// ValidateSignIn checks only the shape of sign-in input.
func ValidateSignIn(email, password, role string) (string, error) {
	var msgs []string
	normalized, ok := NormalizeEmail(email)
	if !ok {
		msgs = append(msgs, MsgEmailInvalid)
	}
	if password == "" {
		msgs = append(msgs, MsgPasswordRequired)
	}
	if !IsValidRole(role) {
		msgs = append(msgs, MsgRoleRequired)
	}
	return normalized, apperr.Validation(msgs...)
}

// NormalizeEmail canonicalizes an address and reports whether it is well-formed.
// The whole address is lowercased. Known mail providers also lose their subaddress
// (Gmail, Outlook and iCloud "+tag", Yahoo "-tag"); Gmail drops dots as well.
func NormalizeEmail(raw string) (string, bool) {
	email := strings.TrimSpace(raw)
	if email == "" || len(email) > MaxEmailLength {
		return "", false
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Name != "" || addr.Address != email {
		return "", false
	}
	at := strings.LastIndex(email, "@")
	local, domain := email[:at], email[at+1:]
	if local == "" || !strings.Contains(domain, ".") || strings.HasPrefix(domain, ".") || strings.HasSuffix(domain, ".") {
		return "", false
	}

	lower := cases.Lower(language.Und)
	local = lower.String(local)
	domain = lower.String(domain)

	switch {
	case gmailDomains[domain]:
		local = strings.ReplaceAll(cutSubaddress(local, "+"), ".", "")
		domain = "gmail.com"
	case outlookDomains[domain], icloudDomains[domain]:
		local = cutSubaddress(local, "+")
	case yahooDomains[domain]:
		// Only the last "-tag" is the subaddress.
		if dash := strings.LastIndex(local, "-"); dash > 0 {
			local = local[:dash]
		}
	case yandexDomains[domain]:
		domain = "yandex.ru"
	}
	if local == "" {
		return "", false
	}
	return local + "@" + domain, true
}

func cutSubaddress(local, sep string) string {
	before, _, _ := strings.Cut(local, sep)
	return before
}

func domainSet(domains ...string) map[string]bool {
	set := make(map[string]bool, len(domains))
	for _, d := range domains {
		set[d] = true
	}
	return set
}

// Provider domains with their own subaddress conventions.
var (
	gmailDomains  = domainSet("gmail.com", "googlemail.com")
	icloudDomains = domainSet("icloud.com", "me.com")
	yahooDomains  = domainSet("rocketmail.com", "yahoo.ca", "yahoo.co.uk", "yahoo.com", "yahoo.de",
		"yahoo.fr", "yahoo.in", "yahoo.it", "ymail.com")
	yandexDomains  = domainSet("yandex.ru", "yandex.ua", "yandex.kz", "yandex.com", "yandex.by", "ya.ru")
	outlookDomains = domainSet(
		"hotmail.at", "hotmail.be", "hotmail.ca", "hotmail.cl", "hotmail.co.il", "hotmail.co.nz",
		"hotmail.co.th", "hotmail.co.uk", "hotmail.com", "hotmail.com.ar", "hotmail.com.au",
		"hotmail.com.br", "hotmail.com.gr", "hotmail.com.mx", "hotmail.com.pe", "hotmail.com.tr",
		"hotmail.com.vn", "hotmail.cz", "hotmail.de", "hotmail.dk", "hotmail.es", "hotmail.fr",
		"hotmail.hu", "hotmail.id", "hotmail.ie", "hotmail.in", "hotmail.it", "hotmail.jp",
		"hotmail.kr", "hotmail.lv", "hotmail.my", "hotmail.ph", "hotmail.pt", "hotmail.sa",
		"hotmail.sg", "hotmail.sk",
		"live.be", "live.co.uk", "live.com", "live.com.ar", "live.com.mx", "live.de", "live.es",
		"live.eu", "live.fr", "live.it", "live.nl", "msn.com",
		"outlook.at", "outlook.be", "outlook.cl", "outlook.co.il", "outlook.co.nz", "outlook.co.th",
		"outlook.com", "outlook.com.ar", "outlook.com.au", "outlook.com.br", "outlook.com.gr",
		"outlook.com.pe", "outlook.com.tr", "outlook.com.vn", "outlook.cz", "outlook.de",
		"outlook.dk", "outlook.es", "outlook.fr", "outlook.hu", "outlook.id", "outlook.ie",
		"outlook.in", "outlook.it", "outlook.jp", "outlook.kr", "outlook.lv", "outlook.my",
		"outlook.ph", "outlook.pt", "outlook.sa", "outlook.sg", "outlook.sk", "passport.com",
	)
)

// IsValidRole reports whether role is one of ValidRoles.
func IsValidRole(role string) bool {
	for _, r := range ValidRoles {
		if r == role {
			return true
		}
	}
	return false
}
