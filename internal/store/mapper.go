package store

import "github.com/MKhiriev/go-quest-ledger/models"

// The mapper translates between remote rows and canonical entities. Reads
// accept snake_case or camelCase keys so mapping an already canonical
// record is a no-op; writes always produce snake_case columns.

func userFromRecord(r Record) models.User {
	return models.User{
		ID:           r.str("id"),
		Name:         r.str("name"),
		Email:        r.str("email"),
		Phone:        r.str("phone"),
		PasswordHash: r.str("password_hash"),
		FreeTrials:   r.integer("free_trials"),
		Points:       r.integer("points"),
		Version:      r.integer("version"),
		CreatedAt:    r.timestamp("created_at"),
	}
}

func userToRecord(u models.User) Record {
	return Record{
		"id":            u.ID,
		"name":          u.Name,
		"email":         u.Email,
		"phone":         u.Phone,
		"password_hash": u.PasswordHash,
		"free_trials":   u.FreeTrials,
		"points":        u.Points,
		"version":       u.Version,
		"created_at":    u.CreatedAt,
	}
}

// userPatchToRecord returns only the columns the patch changes.
func userPatchToRecord(p models.UserPatch) Record {
	r := Record{}
	if p.Name != nil {
		r["name"] = *p.Name
	}
	if p.PasswordHash != nil {
		r["password_hash"] = *p.PasswordHash
	}
	if p.FreeTrials != nil {
		r["free_trials"] = *p.FreeTrials
	}
	if p.Points != nil {
		r["points"] = *p.Points
	}
	return r
}

func paymentFromRecord(r Record) models.Payment {
	return models.Payment{
		ID:             r.str("id"),
		UserID:         r.str("user_id"),
		UserName:       r.str("user_name"),
		UserEmail:      r.str("user_email"),
		PackageType:    models.PackageType(r.str("package_type")),
		PackageName:    r.str("package_name"),
		Points:         r.integer("points"),
		Amount:         r.integer("amount"),
		Method:         r.str("method"),
		ProofReference: r.str("proof_reference"),
		Status:         models.PaymentStatus(r.str("status")),
		CreatedAt:      r.timestamp("created_at"),
		ApprovedAt:     r.timestampPtr("approved_at"),
		RejectedAt:     r.timestampPtr("rejected_at"),
		RejectReason:   r.strPtr("reject_reason"),
		CreditedAt:     r.timestampPtr("credited_at"),
	}
}

func paymentToRecord(p models.Payment) Record {
	return Record{
		"id":              p.ID,
		"user_id":         p.UserID,
		"user_name":       p.UserName,
		"user_email":      p.UserEmail,
		"package_type":    string(p.PackageType),
		"package_name":    p.PackageName,
		"points":          p.Points,
		"amount":          p.Amount,
		"method":          p.Method,
		"proof_reference": p.ProofReference,
		"status":          string(p.Status),
		"created_at":      p.CreatedAt,
		"approved_at":     nullable(p.ApprovedAt),
		"rejected_at":     nullable(p.RejectedAt),
		"reject_reason":   nullable(p.RejectReason),
		"credited_at":     nullable(p.CreditedAt),
	}
}

// paymentPatchToRecord returns only the columns the patch changes.
func paymentPatchToRecord(p models.PaymentPatch) Record {
	r := Record{}
	if p.Status != nil {
		r["status"] = string(*p.Status)
	}
	if p.ApprovedAt != nil {
		r["approved_at"] = *p.ApprovedAt
	}
	if p.RejectedAt != nil {
		r["rejected_at"] = *p.RejectedAt
	}
	if p.RejectReason != nil {
		r["reject_reason"] = *p.RejectReason
	}
	if p.CreditedAt != nil {
		r["credited_at"] = *p.CreditedAt
	}
	return r
}

func progressFromRecord(r Record) models.ProgressEntry {
	return models.ProgressEntry{
		UserID:       r.str("user_id"),
		LanguageID:   r.str("language_id"),
		DifficultyID: r.str("difficulty_id"),
		Level:        r.integer("level"),
		Score:        r.integer("score"),
	}
}

func progressToRecord(e models.ProgressEntry) Record {
	return Record{
		"user_id":       e.UserID,
		"language_id":   e.LanguageID,
		"difficulty_id": e.DifficultyID,
		"level":         e.Level,
		"score":         e.Score,
	}
}

func resetRequestFromRecord(r Record) models.ResetRequest {
	return models.ResetRequest{
		ID:          r.str("id"),
		UserID:      r.str("user_id"),
		UserName:    r.str("user_name"),
		UserEmail:   r.str("user_email"),
		UserPhone:   r.str("user_phone"),
		RequestedAt: r.timestamp("requested_at"),
		Status:      r.str("status"),
	}
}

func resetRequestToRecord(rr models.ResetRequest) Record {
	return Record{
		"id":           rr.ID,
		"user_id":      rr.UserID,
		"user_name":    rr.UserName,
		"user_email":   rr.UserEmail,
		"user_phone":   rr.UserPhone,
		"requested_at": rr.RequestedAt,
		"status":       rr.Status,
	}
}
