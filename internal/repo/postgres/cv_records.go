package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/talentops/cvhub/internal/domain/cvrecord"
)

type CvRecordsRepo struct {
	pool *pgxpool.Pool
}

func NewCvRecordsRepo(pool *pgxpool.Pool) *CvRecordsRepo {
	return &CvRecordsRepo{pool: pool}
}

// List reads every CV record, newest submission first. The projection
// renames each storage column to its external field name so the response
// shape stays decoupled from storage naming; the mapping is total, every
// exposed field has exactly one storage source.
func (r *CvRecordsRepo) List(ctx context.Context) ([]cvrecord.Record, error) {
	rows, err := r.pool.Query(
		ctx,
		`SELECT id,
                name,
                surname,
                email,
                phone,
                department,
                position,
                role_title              AS "roleTitle",
                sap_k_level             AS "sapKLevel",
                experience,
                status,
                cv_file,
                submitted_at            AS "submittedAt",
                id_passport             AS "idPassport",
                languages,
                qualifications,
                work_experiences        AS "workExperiences",
                certificate_types       AS "certificates",
                experience_similar_role AS "experienceInSimilarRole",
                experience_itsm_tools   AS "experienceWithITSMTools",
                institute_name          AS "instituteName",
                year_completed          AS "yearCompleted"
         FROM cv_records
         ORDER BY submitted_at DESC`,
	)

	if err != nil {
		return nil, err
	}

	defer rows.Close()

	records := make([]cvrecord.Record, 0)

	for rows.Next() {
		var rec cvrecord.Record

		err := rows.Scan(
			&rec.ID,
			&rec.Name,
			&rec.Surname,
			&rec.Email,
			&rec.Phone,
			&rec.Department,
			&rec.Position,
			&rec.RoleTitle,
			&rec.SapKLevel,
			&rec.Experience,
			&rec.Status,
			&rec.CvFile,
			&rec.SubmittedAt,
			&rec.IDPassport,
			&rec.Languages,
			&rec.Qualifications,
			&rec.WorkExperiences,
			&rec.Certificates,
			&rec.ExperienceInSimilarRole,
			&rec.ExperienceWithITSMTools,
			&rec.InstituteName,
			&rec.YearCompleted,
		)

		if err != nil {
			return nil, err
		}

		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return records, nil
}
