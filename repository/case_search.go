package repository

import (
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/dfi-sistemas/legajosbackend/models"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Question)

// CaseFilter narrows the case list. Zero values mean "no filter".
type CaseFilter struct {
	Status       string
	Force        string
	Jurisdiction string
	Query        string // matches carátula, expediente number and person names
	Limit        int
	Offset       int
}

// List returns cases matching the filter, ordered by priority (descending)
// and then most recently updated. The filter query is built with squirrel
// against the underlying sql.DB; the matched rows are then loaded through
// GORM with their person and media associations, preserving order.
func (r *GormCaseRepository) List(filter CaseFilter) ([]models.Case, error) {
	queryBuilder := psql.Select("DISTINCT cases.id", "cases.priority", "cases.updated_at").
		From("cases").
		LeftJoin("person_cases ON person_cases.case_id = cases.id").
		LeftJoin("persons ON persons.id = person_cases.person_id").
		OrderBy("cases.priority DESC", "cases.updated_at DESC")

	if filter.Status != "" {
		queryBuilder = queryBuilder.Where(sq.Eq{"cases.status": filter.Status})
	}
	if filter.Force != "" {
		queryBuilder = queryBuilder.Where(sq.Eq{"cases.assigned_force": filter.Force})
	}
	if filter.Jurisdiction != "" {
		queryBuilder = queryBuilder.Where(sq.Eq{"cases.jurisdiction": filter.Jurisdiction})
	}
	if filter.Query != "" {
		like := "%" + filter.Query + "%"
		queryBuilder = queryBuilder.Where(sq.Or{
			sq.Like{"cases.caratula": like},
			sq.Like{"cases.expediente_number": like},
			sq.Like{"persons.first_name": like},
			sq.Like{"persons.last_name": like},
			sq.Like{"persons.document_number": like},
		})
	}
	if filter.Limit > 0 {
		queryBuilder = queryBuilder.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		queryBuilder = queryBuilder.Offset(uint64(filter.Offset))
	}

	sqlStr, args, err := queryBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build SQL for case list: %w", err)
	}

	sqlDB, err := r.db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB for case list: %w", err)
	}

	rows, err := sqlDB.Query(sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to execute case list query: %w", err)
	}
	defer rows.Close()

	var ids []uint
	for rows.Next() {
		var (
			id        uint
			priority  int
			updatedAt interface{}
		)
		if err := rows.Scan(&id, &priority, &updatedAt); err != nil {
			return nil, fmt.Errorf("error scanning case id row: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating case id rows: %w", err)
	}
	if len(ids) == 0 {
		return []models.Case{}, nil
	}

	var cases []models.Case
	if err := casePreloads(r.db).Where("id IN ?", ids).Find(&cases).Error; err != nil {
		return nil, err
	}

	// restore the filter query's ordering, lost by the IN lookup
	byID := make(map[uint]models.Case, len(cases))
	for _, c := range cases {
		byID[c.ID] = c
	}
	ordered := make([]models.Case, 0, len(ids))
	for _, id := range ids {
		if c, ok := byID[id]; ok {
			ordered = append(ordered, c)
		}
	}
	return ordered, nil
}
