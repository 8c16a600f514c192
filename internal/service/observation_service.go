package service

import (
	"context"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"spatialboard/internal/cache"
	"spatialboard/internal/catalog"
	"spatialboard/internal/model"
	"spatialboard/internal/repository"
)

// ObservationService runs the two form actions: "reflect" (generate
// feedback, persist nothing) and "save" (best-effort uploads, append one
// record, advance the form instance).
type ObservationService struct {
	repo        repository.ObservationRepo
	store       cache.SessionStore
	attachments *AttachmentService
	reflection  *ReflectionService
	catalog     *catalog.Catalog
	validate    *validator.Validate
	now         func() time.Time
}

func NewObservationService(
	repo repository.ObservationRepo,
	store cache.SessionStore,
	attachments *AttachmentService,
	reflection *ReflectionService,
	cat *catalog.Catalog,
) *ObservationService {
	v := validator.New()
	// Error messages carry JSON field names, not Go struct names.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &ObservationService{
		repo:        repo,
		store:       store,
		attachments: attachments,
		reflection:  reflection,
		catalog:     cat,
		validate:    v,
		now:         time.Now,
	}
}

// Reflect generates feedback on the current challenge text and caches it as
// the session's last feedback. It never touches the observation log.
func (s *ObservationService) Reflect(ctx context.Context, sessionID, challenge string) (string, error) {
	sess, err := s.getSession(ctx, sessionID)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(challenge) == "" {
		return "", validationErrorf("challenge text is required for a reflection")
	}
	if sess.LastSelectedStudent == "" {
		return "", validationErrorf("select a student before requesting a reflection")
	}

	feedback, err := s.reflection.Reflect(ctx, sess.LastSelectedStudent, challenge)
	if err != nil {
		return "", fmt.Errorf("reflection generation: %w", err)
	}

	sess.LastFeedback = feedback
	sess.UpdatedAt = s.now()
	if err := s.store.Set(ctx, sess); err != nil {
		return "", fmt.Errorf("store session: %w", err)
	}
	return feedback, nil
}

// Save validates the form, uploads attachments best-effort, appends the
// record and advances the session. On append failure nothing about the
// session changes, so the page keeps its inputs.
func (s *ObservationService) Save(ctx context.Context, sessionID string, req *model.SaveObservationRequest, files []AttachmentFile) (*model.Observation, *model.Session, error) {
	sess, err := s.getSession(ctx, sessionID)
	if err != nil {
		return nil, nil, err
	}
	if err := s.validateRequest(req); err != nil {
		return nil, nil, err
	}

	urls := s.attachments.UploadAll(ctx, files)

	now := s.now()
	date := req.Date
	if date == "" {
		date = now.Format("2006-01-02")
	}
	record := &model.Observation{
		Date:          date,
		Timestamp:     now.Format(time.RFC3339),
		StudentName:   req.StudentName,
		WorkMethod:    model.WorkMethod(req.WorkMethod),
		Challenge:     req.Challenge,
		Insight:       req.Insight,
		Difficulty:    req.Difficulty,
		CatDimsProps:  req.CatDimsProps,
		CatConvertRep: req.CatConvertRep,
		CatProjTrans:  req.CatProjTrans,
		Cat3DSupport:  req.Cat3DSupport,
		Tags:          req.Tags,
		FileLinks:     urls,
	}

	if err := s.repo.Append(record); err != nil {
		return nil, nil, fmt.Errorf("persist observation: %w", err)
	}

	sess.FormInstance++
	sess.LastFeedback = ""
	sess.UpdatedAt = now
	if err := s.store.Set(ctx, sess); err != nil {
		return nil, nil, fmt.Errorf("record saved but session update failed: %w", err)
	}
	return record, sess, nil
}

func (s *ObservationService) getSession(ctx context.Context, id string) (*model.Session, error) {
	sess, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if sess == nil {
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

func (s *ObservationService) validateRequest(req *model.SaveObservationRequest) error {
	if strings.TrimSpace(req.Challenge) == "" {
		return validationErrorf("challenge is required")
	}
	if err := s.validate.Struct(req); err != nil {
		if fieldErrs, ok := err.(validator.ValidationErrors); ok && len(fieldErrs) > 0 {
			return validationErrorf(describeFieldError(fieldErrs[0]))
		}
		return validationErrorf(err.Error())
	}
	if !s.catalog.HasStudent(req.StudentName) {
		return validationErrorf(fmt.Sprintf("student %q is not on the roster", req.StudentName))
	}
	if unknown := s.catalog.UnknownTags(req.Tags); len(unknown) > 0 {
		return validationErrorf(fmt.Sprintf("unknown tag %q", unknown[0]))
	}
	return nil
}

func describeFieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "min", "max":
		return fe.Field() + " must be between 1 and 5"
	case "oneof":
		return fe.Field() + " must be one of the configured work methods"
	case "unique":
		return fe.Field() + " must not contain duplicates"
	default:
		return fe.Field() + " is invalid"
	}
}
