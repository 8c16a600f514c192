package handler

import (
	"encoding/json"
	"io"
	"net/http"
	"path"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"spatialboard/internal/model"
	"spatialboard/internal/service"
)

// maxUploadBytes bounds one save request's attachments.
const maxUploadBytes = 32 << 20

// imageMIMEs maps accepted upload extensions to their content types.
var imageMIMEs = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
}

// ObservationHandler handles the reflect and save form actions
type ObservationHandler struct {
	observationSvc *service.ObservationService
}

// NewObservationHandler creates a new observation handler
func NewObservationHandler(observationSvc *service.ObservationService) *ObservationHandler {
	return &ObservationHandler{observationSvc: observationSvc}
}

// Reflect handles POST /v1/sessions/{id}/reflect
func (h *ObservationHandler) Reflect(w http.ResponseWriter, r *http.Request) {
	var req model.ReflectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	feedback, err := h.observationSvc.Reflect(r.Context(), mux.Vars(r)["id"], req.Challenge)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"feedback": feedback})
}

// Save handles POST /v1/sessions/{id}/observations. The body is either
// multipart/form-data (form fields plus optional "images" files) or a plain
// JSON record when nothing is attached.
func (h *ObservationHandler) Save(w http.ResponseWriter, r *http.Request) {
	var req *model.SaveObservationRequest
	var files []service.AttachmentFile
	var err error

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		req, files, err = parseMultipartSave(r)
	} else {
		req = &model.SaveObservationRequest{}
		err = json.NewDecoder(r.Body).Decode(req)
	}
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	record, sess, err := h.observationSvc.Save(r.Context(), mux.Vars(r)["id"], req, files)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"record":  record,
		"session": sess,
	})
}

func parseMultipartSave(r *http.Request) (*model.SaveObservationRequest, []service.AttachmentFile, error) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		return nil, nil, err
	}

	req := &model.SaveObservationRequest{
		Date:        r.FormValue("date"),
		StudentName: r.FormValue("student_name"),
		WorkMethod:  r.FormValue("work_method"),
		Challenge:   r.FormValue("challenge"),
		Insight:     r.FormValue("insight"),
		Tags:        r.MultipartForm.Value["tags"],
	}
	for field, dst := range map[string]*int{
		"difficulty":      &req.Difficulty,
		"cat_dims_props":  &req.CatDimsProps,
		"cat_convert_rep": &req.CatConvertRep,
		"cat_proj_trans":  &req.CatProjTrans,
		"cat_3d_support":  &req.Cat3DSupport,
	} {
		// Missing or garbled numbers become 0 and fail range validation.
		*dst, _ = strconv.Atoi(r.FormValue(field))
	}

	var files []service.AttachmentFile
	for _, fh := range r.MultipartForm.File["images"] {
		ext := strings.ToLower(path.Ext(fh.Filename))
		mime, ok := imageMIMEs[ext]
		if !ok {
			continue
		}
		f, err := fh.Open()
		if err != nil {
			continue
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			continue
		}
		files = append(files, service.AttachmentFile{Name: fh.Filename, MIME: mime, Data: data})
	}
	return req, files, nil
}
