package main

import (
	"log"
	"time"

	"spatialboard/internal/catalog"
	"spatialboard/internal/config"
	"spatialboard/internal/model"
	"spatialboard/internal/repository"
)

// Seeds a handful of sample observations into the configured data file so
// the dashboard has history to show during development.
func main() {
	cfg := config.Load()
	repo := repository.NewObservationRepo(cfg.DataFile)
	cat := catalog.New(cfg.Roster, cfg.Tags)

	roster := cat.Roster()
	tags := cat.Tags()

	samples := []struct {
		daysAgo    int
		student    string
		method     model.WorkMethod
		challenge  string
		insight    string
		difficulty int
		tags       []string
	}{
		{14, roster[0], model.WorkMethodPrintedBody,
			"could not place the side view relative to the front view",
			"starts drawing before orienting the object", 4,
			[]string{tags[0]}},
		{10, roster[0], model.WorkMethodImagination,
			"mirrored the object when rotating it mentally",
			"", 5,
			[]string{tags[1], tags[4]}},
		{7, roster[1], model.WorkMethodPrintedBody,
			"miscounted the hidden cubes in the isometric drawing",
			"counting strategy is face-by-face, not layer-by-layer", 3,
			[]string{tags[2]}},
		{3, roster[0], model.WorkMethodPrintedBody,
			"correct projections but wrong proportions",
			"improvement: orientation is now immediate", 2,
			[]string{tags[3]}},
	}

	for _, s := range samples {
		day := time.Now().AddDate(0, 0, -s.daysAgo)
		rec := &model.Observation{
			Date:          day.Format("2006-01-02"),
			Timestamp:     day.Format(time.RFC3339),
			StudentName:   s.student,
			WorkMethod:    s.method,
			Challenge:     s.challenge,
			Insight:       s.insight,
			Difficulty:    s.difficulty,
			CatDimsProps:  s.difficulty,
			CatConvertRep: 3,
			CatProjTrans:  3,
			Cat3DSupport:  3,
			Tags:          s.tags,
		}
		if err := repo.Append(rec); err != nil {
			log.Fatalf("seed: %v", err)
		}
	}

	log.Printf("seeded %d observations into %s", len(samples), cfg.DataFile)
}
