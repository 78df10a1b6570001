package model

const (
	PastYes = "yes"
	PastNo  = "no"
)

type Member struct {
	Name       string `json:"name"`
	Form       string `json:"form"`
	Year       string `json:"year"`
	Experience string `json:"experience"`
	Past       string `json:"past"`
	Reason     string `json:"reason"`
	FeePaid    bool   `json:"feePaid"`
	Email      string `json:"email"`
}

func (m *Member) Valid() bool {
	return m.Name != "" && (m.Past == PastYes || m.Past == PastNo)
}
