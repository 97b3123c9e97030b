// Package csvfile lee el export bufalos.csv del registro.
package csvfile

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"herd-pedigree/internal/domain/pedigree"
)

var ErrMissingColumn = errors.New("csv: missing required column")

const (
	colID        = "id_bufalo"
	colName      = "nome"
	colSex       = "sexo"
	colSire      = "id_pai"
	colDam       = "id_mae"
	colBreed     = "id_raca"
	colPotential = "potencial_genetico_leite"
	colBaseline  = "coef_consanguinidade"
	colStatus    = "status"
)

type AnimalsRepo struct {
	path string
}

func NewAnimalsRepo(path string) *AnimalsRepo {
	return &AnimalsRepo{path: path}
}

// LoadAnimals relee el archivo en cada llamada.
func (r *AnimalsRepo) LoadAnimals(ctx context.Context) ([]pedigree.Animal, error) {
	f, err := os.Open(r.path)
	if err != nil {
		return nil, fmt.Errorf("csv: open %s: %w", r.path, err)
	}
	defer f.Close()
	return Parse(ctx, f)
}

// Parse lee registros con header. Sólo id_bufalo es obligatoria;
// filas con status=false se descartan.
func Parse(ctx context.Context, in io.Reader) ([]pedigree.Animal, error) {
	cr := csv.NewReader(in)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("csv: read header: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))] = i
	}
	if _, ok := cols[colID]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumn, colID)
	}

	get := func(rec []string, col string) string {
		i, ok := cols[col]
		if !ok || i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}

	var out []pedigree.Animal
	for line := 2; ; line++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("csv: line %d: %w", line, err)
		}

		if status := get(rec, colStatus); status != "" {
			if active, err := strconv.ParseBool(status); err == nil && !active {
				continue
			}
		}

		potential, err := optionalFloat(get(rec, colPotential))
		if err != nil {
			return nil, fmt.Errorf("csv: line %d: %s: %w", line, colPotential, err)
		}
		baseline, err := optionalFloat(get(rec, colBaseline))
		if err != nil {
			return nil, fmt.Errorf("csv: line %d: %s: %w", line, colBaseline, err)
		}

		out = append(out, pedigree.Animal{
			ID:                 normalizeID(get(rec, colID)),
			Name:               get(rec, colName),
			Sex:                pedigree.ParseSex(get(rec, colSex)),
			Breed:              normalizeID(get(rec, colBreed)),
			SireID:             normalizeID(get(rec, colSire)),
			DamID:              normalizeID(get(rec, colDam)),
			GeneticPotential:   potential,
			BaselineInbreeding: baseline,
		})
	}
	return out, nil
}

// normalizeID limpia los ids numéricos que los exports escriben como float ("12.0")
// y los vacíos escritos como NaN.
func normalizeID(v string) string {
	switch strings.ToLower(v) {
	case "", "nan", "null", "none":
		return ""
	}
	if whole, frac, ok := strings.Cut(v, "."); ok && strings.Trim(frac, "0") == "" {
		if _, err := strconv.ParseInt(whole, 10, 64); err == nil {
			return whole
		}
	}
	return v
}

func optionalFloat(v string) (*float64, error) {
	if v == "" || strings.EqualFold(v, "nan") {
		return nil, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return nil, err
	}
	return &f, nil
}
