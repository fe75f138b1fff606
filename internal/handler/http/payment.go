package http

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/MKhiriev/go-quest-ledger/internal/logger"
	"github.com/MKhiriev/go-quest-ledger/internal/proof"
	"github.com/MKhiriev/go-quest-ledger/internal/utils"
	"github.com/MKhiriev/go-quest-ledger/models"
)

// submitPayment accepts a multipart form with packageType, points, amount,
// method and the "proof" file. The package is checked against the catalog
// before the file is stored.
func (h *Handler) submitPayment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	r.Body = http.MaxBytesReader(w, r.Body, maxProofUploadSize)
	if err := r.ParseMultipartForm(maxProofUploadSize); err != nil {
		log.Info().Err(err).Msg("failed to parse payment form")
		writeError(w, r, ErrInvalidForm)
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	submission := models.PaymentSubmission{
		UserID:      userID(r),
		PackageType: models.PackageType(strings.TrimSpace(r.FormValue("packageType"))),
		Points:      formInt(r, "points"),
		Amount:      formInt(r, "amount"),
		Method:      r.FormValue("method"),
	}

	file, header, err := r.FormFile("proof")
	if errors.Is(err, http.ErrMissingFile) {
		writeError(w, r, ErrMissingProofFile)
		return
	}
	if err != nil {
		writeError(w, r, ErrInvalidForm)
		return
	}
	defer file.Close()

	if _, err = h.services.PaymentService.CheckPackage(ctx, submission.PackageType, submission.Points, submission.Amount); err != nil {
		writeError(w, r, err)
		return
	}

	key, err := h.proofs.Save(ctx, proof.Upload{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Body:        file,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	submission.ProofReference = key

	payment, err := h.services.PaymentService.Submit(ctx, submission)
	if err != nil {
		// no payment references the file, so it goes too
		if delErr := h.proofs.Delete(context.WithoutCancel(ctx), key); delErr != nil {
			log.Err(delErr).Str("key", key).Msg("failed to remove orphaned proof")
		}
		writeError(w, r, err)
		return
	}

	_, _ = utils.WriteJSON(w, payment, http.StatusCreated)
}

// formInt returns -1 for missing or malformed numbers; no catalog entry
// matches it.
func formInt(r *http.Request, field string) int64 {
	v, err := strconv.ParseInt(strings.TrimSpace(r.FormValue(field)), 10, 64)
	if err != nil {
		return -1
	}
	return v
}

func (h *Handler) listUserPayments(w http.ResponseWriter, r *http.Request) {
	payments, err := h.services.PaymentService.ListByUser(r.Context(), userID(r))
	if err != nil {
		writeError(w, r, err)
		return
	}

	_, _ = utils.WriteJSON(w, payments, http.StatusOK)
}

// streamProof copies the stored proof to w.
func (h *Handler) streamProof(w http.ResponseWriter, r *http.Request, key string) {
	body, err := h.proofs.Open(r.Context(), key)
	if err != nil {
		writeError(w, r, err)
		return
	}
	defer body.Close()

	w.Header().Set("Content-Type", "application/octet-stream")
	w.WriteHeader(http.StatusOK)
	if _, err = io.Copy(w, body); err != nil {
		logger.FromRequest(r).Err(err).Str("key", key).Msg("failed to stream proof")
	}
}
