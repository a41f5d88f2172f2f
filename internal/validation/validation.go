package validation

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/nahidhasan98/changelog-notifier/internal/errors"
	"github.com/nahidhasan98/changelog-notifier/internal/models"
)

// GitHub name rules
var (
	// Owners: alphanumerics and single hyphens, no leading hyphen, up to 39 chars
	ownerPattern = regexp.MustCompile(`^[A-Za-z0-9](?:[A-Za-z0-9]|-[A-Za-z0-9]){0,38}$`)

	// Repositories: alphanumerics, '.', '_' and '-', up to 100 chars
	repoPattern = regexp.MustCompile(`^[A-Za-z0-9._-]{1,100}$`)
)

// WhatsApp JID patterns
var (
	// Individual JID pattern: number@s.whatsapp.net
	individualJIDPattern = regexp.MustCompile(`^\d{10,15}@s\.whatsapp\.net$`)

	// Group JID pattern: groupid@g.us, optionally creator-timestamp
	groupJIDPattern = regexp.MustCompile(`^\d+(-\d+)?@g\.us$`)
)

// Validator provides validation methods
type Validator struct{}

// New creates a new validator instance
func New() *Validator {
	return &Validator{}
}

// ValidateGenerateRequest validates and normalizes a changelog generation request
func (v *Validator) ValidateGenerateRequest(req *models.GenerateChangelogRequest) *errors.AppError {
	if req == nil {
		return errors.InvalidRequest("Request body is required")
	}

	req.Owner = strings.TrimSpace(req.Owner)
	req.Repo = strings.TrimSpace(req.Repo)

	if req.Owner == "" || req.Repo == "" {
		return errors.ValidationError("owner & repo required")
	}

	return v.ValidateRepository(req.Owner, req.Repo)
}

// ValidateRepository checks owner and repository names
func (v *Validator) ValidateRepository(owner, repo string) *errors.AppError {
	if !ownerPattern.MatchString(owner) {
		return errors.ValidationError(fmt.Sprintf("Invalid repository owner: %q", owner))
	}

	if !repoPattern.MatchString(repo) || repo == "." || repo == ".." {
		return errors.ValidationError(fmt.Sprintf("Invalid repository name: %q", repo))
	}

	return nil
}

// IsValidJID checks if a JID is valid WhatsApp format
func (v *Validator) IsValidJID(jid string) bool {
	jid = strings.TrimSpace(jid)
	return individualJIDPattern.MatchString(jid) || groupJIDPattern.MatchString(jid)
}

// ParseLimit reads an optional limit query parameter
func (v *Validator) ParseLimit(raw string, defaultLimit int) (int, *errors.AppError) {
	if raw == "" {
		return defaultLimit, nil
	}

	limit, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.ValidationError("Invalid limit parameter: must be a number")
	}

	if limit < 1 || limit > 1000 {
		return 0, errors.ValidationError("Invalid limit parameter: must be between 1 and 1000")
	}

	return limit, nil
}
