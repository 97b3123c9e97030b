// Package remote lee el snapshot de pedigree desde un servicio HTTP que exporta
// el registro como JSON.
package remote

import (
	"context"
	"fmt"
	"strings"

	"herd-pedigree/internal/domain/pedigree"
	"herd-pedigree/internal/platform/httpclient"
)

// animalDTO acepta el export del registro: ids como string y sexo "M"/"F".
type animalDTO struct {
	ID                 string   `json:"id"`
	Name               string   `json:"name"`
	Sex                string   `json:"sex"`
	Breed              string   `json:"breed"`
	SireID             string   `json:"sire_id"`
	DamID              string   `json:"dam_id"`
	GeneticPotential   *float64 `json:"genetic_potential"`
	BaselineInbreeding *float64 `json:"baseline_inbreeding"`
}

type exportDTO struct {
	Animals []animalDTO `json:"animals"`
}

type AnimalsRepo struct {
	client  *httpclient.Client
	url     string
	headers map[string]string
}

func NewAnimalsRepo(client *httpclient.Client, url string, headers map[string]string) *AnimalsRepo {
	return &AnimalsRepo{client: client, url: url, headers: headers}
}

func (r *AnimalsRepo) LoadAnimals(ctx context.Context) ([]pedigree.Animal, error) {
	var export exportDTO
	if err := r.client.GetJSON(ctx, r.url, r.headers, &export); err != nil {
		return nil, fmt.Errorf("remote: load animals: %w", err)
	}

	out := make([]pedigree.Animal, 0, len(export.Animals))
	for _, a := range export.Animals {
		out = append(out, pedigree.Animal{
			ID:                 strings.TrimSpace(a.ID),
			Name:               a.Name,
			Sex:                pedigree.ParseSex(strings.TrimSpace(a.Sex)),
			Breed:              a.Breed,
			SireID:             strings.TrimSpace(a.SireID),
			DamID:              strings.TrimSpace(a.DamID),
			GeneticPotential:   a.GeneticPotential,
			BaselineInbreeding: a.BaselineInbreeding,
		})
	}
	return out, nil
}
