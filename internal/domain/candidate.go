package domain

// ResumeShape tells how a candidate page was laid out.
type ResumeShape string

const (
	ShapeTemplate ResumeShape = "template" // work.ua structured profile
	ShapeFile     ResumeShape = "file"     // work.ua uploaded document
	ShapeProfile  ResumeShape = "profile"  // robota.ua client-rendered profile
)

type JobHistoryEntry struct {
	Title        string `json:"title"`
	Organisation string `json:"organisation,omitempty"`
	Period       string `json:"period,omitempty"`
	Description  string `json:"description,omitempty"`
}

type EducationEntry struct {
	Title       string `json:"title"`
	Speciality  string `json:"speciality,omitempty"`
	Period      string `json:"period,omitempty"`
	Description string `json:"description,omitempty"`
}

// KV is an unrecognised label/value pair kept for the record.
type KV struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// CandidateRecord is what one detail page yields. Empty fields mean the
// section was not found on the page.
type CandidateRecord struct {
	Source         string            `json:"source"`
	Link           string            `json:"link"`
	Shape          ResumeShape       `json:"resume_type"`
	Name           string            `json:"name,omitempty"`
	Occupation     string            `json:"occupation,omitempty"`
	Salary         string            `json:"salary,omitempty"`
	Age            string            `json:"age,omitempty"`
	Location       string            `json:"location,omitempty"`
	Employment     string            `json:"employment,omitempty"`
	Relocation     string            `json:"relocation,omitempty"`
	AdditionalInfo string            `json:"additional_info,omitempty"`
	JobHistory     []JobHistoryEntry `json:"job_experience,omitempty"`
	Education      []EducationEntry  `json:"education,omitempty"`
	Skills         []string          `json:"skills,omitempty"`
	Languages      []string          `json:"languages,omitempty"`
	Overflow       []KV              `json:"unprocessed_info,omitempty"`
}

type ScoredCandidate struct {
	CandidateRecord
	Mark float64 `json:"mark"`
}

// ResultSet is sorted by Mark descending, ties in original order.
type ResultSet []ScoredCandidate
