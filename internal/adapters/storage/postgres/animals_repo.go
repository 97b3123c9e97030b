package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"herd-pedigree/internal/domain/pedigree"
)

// AnimalsRepo lee el registro de búfalos activos como Source del motor.
type AnimalsRepo struct {
	db *sql.DB
}

func NewAnimalsRepo(db *sql.DB) *AnimalsRepo {
	return &AnimalsRepo{db: db}
}

// bufaloColumns son las columnas de "Bufalo" que lee el repo. La tabla no guarda
// potencial genético ni consanguinidad base: el potencial va fijo en 1.0 y la
// consanguinidad base sólo llega por CSV o remote.
var bufaloColumns = []string{"id_bufalo", "nome", "sexo", "id_raca", "id_pai", "id_mae", "status"}

const selectActiveAnimals = `
	SELECT
		b.id_bufalo::text,
		COALESCE(b.nome, ''),
		COALESCE(b.sexo, ''),
		COALESCE(b.id_raca::text, ''),
		COALESCE(b.id_pai::text, ''),
		COALESCE(b.id_mae::text, ''),
		1.0::float8 AS potencial_genetico_leite
	FROM "Bufalo" b
	WHERE b.status = true
	ORDER BY b.id_bufalo
`

func (r *AnimalsRepo) LoadAnimals(ctx context.Context) ([]pedigree.Animal, error) {
	rows, err := r.db.QueryContext(ctx, selectActiveAnimals)
	if err != nil {
		return nil, fmt.Errorf("postgres: query animals: %w", err)
	}
	defer rows.Close()

	var out []pedigree.Animal
	for rows.Next() {
		var (
			a         pedigree.Animal
			sex       string
			potential sql.NullFloat64
		)
		if err := rows.Scan(scanTargets(&a, &sex, &potential)...); err != nil {
			return nil, fmt.Errorf("postgres: scan animal: %w", err)
		}
		a.Sex = pedigree.ParseSex(strings.TrimSpace(sex))
		a.GeneticPotential = fromNullFloat(potential)
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: iterate animals: %w", err)
	}
	return out, nil
}

// scanTargets sigue el orden de selectActiveAnimals.
func scanTargets(a *pedigree.Animal, sex *string, potential *sql.NullFloat64) []any {
	return []any{&a.ID, &a.Name, sex, &a.Breed, &a.SireID, &a.DamID, potential}
}

func fromNullFloat(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}
