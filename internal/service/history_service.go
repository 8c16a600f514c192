package service

import (
	"fmt"
	"strings"

	"spatialboard/internal/model"
	"spatialboard/internal/repository"
)

// historyLimit is how many of a student's most recent records seed the
// reflection/chat context.
const historyLimit = 15

// HistoryService reads the observation log and renders a student's recent
// entries into a compact prompt context.
type HistoryService struct {
	repo  repository.ObservationRepo
	limit int
}

func NewHistoryService(repo repository.ObservationRepo) *HistoryService {
	return &HistoryService{repo: repo, limit: historyLimit}
}

// RecentFor returns the rendered context for the student's last records in
// log order, and whether any prior records exist. Name matching is
// canonical, so "  dana  levi " finds "Dana Levi".
func (s *HistoryService) RecentFor(studentName string) (string, bool, error) {
	records, err := s.repo.All()
	if err != nil {
		return "", false, fmt.Errorf("load history: %w", err)
	}

	want := model.Canonical(studentName)
	var matched []model.Observation
	for _, rec := range records {
		if model.Canonical(rec.StudentName) == want {
			matched = append(matched, rec)
		}
	}
	if len(matched) == 0 {
		return "", false, nil
	}
	if len(matched) > s.limit {
		matched = matched[len(matched)-s.limit:]
	}

	var b strings.Builder
	for _, rec := range matched {
		tags := "-"
		if len(rec.Tags) > 0 {
			tags = strings.Join(rec.Tags, "; ")
		}
		fmt.Fprintf(&b, "[%s] method=%s difficulty=%d/5 dims=%d conv=%d proj=%d 3d=%d tags=%s\n",
			rec.Date, rec.WorkMethod, rec.Difficulty,
			rec.CatDimsProps, rec.CatConvertRep, rec.CatProjTrans, rec.Cat3DSupport, tags)
		fmt.Fprintf(&b, "  challenge: %s\n", rec.Challenge)
		if rec.Insight != "" {
			fmt.Fprintf(&b, "  insight: %s\n", rec.Insight)
		}
	}
	return strings.TrimRight(b.String(), "\n"), true, nil
}
