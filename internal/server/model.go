package server

import (
	"strings"

	"github.com/s-min-sys/tourneybe/internal/model"
)

// emailDomain is appended to the mailbox name pupils type in; the form asks
// for the part before the @ only.
const emailDomain = "@arkvictoria.org"

const (
	msgMissingP1Name = "Missing Player 1 name"
	msgNoGroup       = "Please come back with a group."
	msgMissingP2     = "Group entries must include both members."
	msgEmailHasAt    = "Do not include @ in email"
	msgFeeIneligible = "Please go to Mr Smith (M22) To find out more. You cannot join."
	msgServerError   = "Server error"
	msgWrongPassword = "Incorrect password"
	msgUnauthorized  = "Unauthorized"
)

type MemberEntry struct {
	Name       string `json:"name"`
	Form       string `json:"form"`
	Year       string `json:"year"`
	Experience string `json:"experience"`
	Past       string `json:"past"`
	Reason     string `json:"reason"`
	Fee        string `json:"fee"`
	Email      string `json:"email"`
}

func (entry *MemberEntry) feePaid() bool {
	return entry.Fee == "yes"
}

func (entry *MemberEntry) toMember(email string) model.Member {
	past := model.PastNo
	if entry.Past == model.PastYes {
		past = model.PastYes
	}

	return model.Member{
		Name:       entry.Name,
		Form:       entry.Form,
		Year:       entry.Year,
		Experience: entry.Experience,
		Past:       past,
		Reason:     entry.Reason,
		FeePaid:    entry.feePaid(),
		Email:      email,
	}
}

type SubmitRequest struct {
	Group string      `json:"group"`
	P1    MemberEntry `json:"p1"`
	P2    MemberEntry `json:"p2"`
}

// Resolve applies the entry rules in order and stops at the first violation.
// On success it returns the two member records ready to persist.
func (req *SubmitRequest) Resolve() (members []model.Member, groupFeePaid bool, code Code, msg string) {
	if req.P1.Name == "" {
		code = CodeMissArgs
		msg = msgMissingP1Name

		return
	}

	if req.Group != "yes" {
		code = CodeInvalidArgs
		msg = msgNoGroup

		return
	}

	if req.P2.Name == "" {
		code = CodeMissArgs
		msg = msgMissingP2

		return
	}

	p1Email, ok := normalizeEmail(req.P1.Email)
	if !ok {
		code = CodeInvalidArgs
		msg = msgEmailHasAt

		return
	}

	p2Email, ok := normalizeEmail(req.P2.Email)
	if !ok {
		code = CodeInvalidArgs
		msg = msgEmailHasAt

		return
	}

	if !req.P1.feePaid() && !req.P2.feePaid() {
		code = CodeInvalidArgs
		msg = msgFeeIneligible

		return
	}

	members = []model.Member{
		req.P1.toMember(p1Email),
		req.P2.toMember(p2Email),
	}

	groupFeePaid = members[0].FeePaid || members[1].FeePaid

	code = CodeSuccess

	return
}

// normalizeEmail turns a bare mailbox name into a full institutional address.
// Empty input stays empty; anything already containing an @ is rejected.
func normalizeEmail(raw string) (email string, ok bool) {
	if raw == "" {
		return "", true
	}

	if strings.Contains(raw, "@") {
		return "", false
	}

	local := strings.ToLower(strings.TrimSpace(raw))
	if local == "" {
		return "", true
	}

	return local + emailDomain, true
}

type SubmitResponse struct {
	OK      bool   `json:"ok"`
	ID      string `json:"id,omitempty"`
	Message string `json:"message,omitempty"`
}

type LoginRequest struct {
	Password string `form:"password" json:"password"`
}
