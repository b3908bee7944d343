package cvrecord

import "time"

// Record is the external shape of one CV submission. The JSON tags are the
// API field names; storage column names differ and are renamed in the
// repository projection. languages, qualifications, workExperiences and
// certificates arrive from storage as serialized text and are passed through
// verbatim.
type Record struct {
	ID                      string    `json:"id"`
	Name                    string    `json:"name"`
	Surname                 string    `json:"surname"`
	Email                   string    `json:"email"`
	Phone                   string    `json:"phone"`
	Department              string    `json:"department"`
	Position                string    `json:"position"`
	RoleTitle               string    `json:"roleTitle"`
	SapKLevel               string    `json:"sapKLevel"`
	Experience              string    `json:"experience"`
	Status                  string    `json:"status"`
	CvFile                  string    `json:"cv_file"`
	SubmittedAt             time.Time `json:"submittedAt"`
	IDPassport              string    `json:"idPassport"`
	Languages               string    `json:"languages"`
	Qualifications          string    `json:"qualifications"`
	WorkExperiences         string    `json:"workExperiences"`
	Certificates            string    `json:"certificates"`
	ExperienceInSimilarRole string    `json:"experienceInSimilarRole"`
	ExperienceWithITSMTools string    `json:"experienceWithITSMTools"`
	InstituteName           string    `json:"instituteName"`
	YearCompleted           string    `json:"yearCompleted"`
}
