package server

import (
	"strings"
	"time"

	"github.com/s-min-sys/tourneybe/internal/model"
)

var csvHeader = []string{
	"First Name", "First Year", "First Form", "First Email", "First FeePaid", "First PlayedBefore",
	"Second Name", "Second Year", "Second Form", "Second Email", "Second FeePaid", "Second PlayedBefore",
	"GroupFeePaid", "CreatedAt",
}

// exportCSV writes the whole roster, one line per group. Every field is
// quoted with inner quotes doubled so free text with commas or newlines
// stays one cell.
func exportCSV(groups []model.Group) []byte {
	var sb strings.Builder

	sb.WriteString(csvLine(csvHeader))

	for idx := range groups {
		sb.WriteByte('\n')
		sb.WriteString(csvLine(csvGroupFields(&groups[idx])))
	}

	return []byte(sb.String())
}

func csvGroupFields(group *model.Group) []string {
	fields := make([]string, 0, len(csvHeader))

	fields = append(fields, csvMemberFields(group, 0)...)
	fields = append(fields, csvMemberFields(group, 1)...)

	fields = append(fields, yesNo(group.GroupFeePaid), group.CreatedAt.Format(time.RFC3339))

	return fields
}

// csvMemberFields returns the six per-member columns, all empty when the
// member slot is vacant.
func csvMemberFields(group *model.Group, idx int) []string {
	if idx >= len(group.Members) {
		return []string{"", "", "", "", "", ""}
	}

	member := &group.Members[idx]

	return []string{
		member.Name, member.Year, member.Form, member.Email,
		yesNo(member.FeePaid), member.Past,
	}
}

func csvLine(fields []string) string {
	quoted := make([]string, len(fields))

	for idx, field := range fields {
		quoted[idx] = `"` + strings.ReplaceAll(field, `"`, `""`) + `"`
	}

	return strings.Join(quoted, ",")
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}

	return "no"
}
