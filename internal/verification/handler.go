package verification

import (
	"errors"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"homematch/landlord-portal/landlord-portal-backend/internal/auth"
	"homematch/landlord-portal/landlord-portal-backend/internal/draft"
	"homematch/landlord-portal/landlord-portal-backend/internal/statussync"
)

type Handler struct {
	service Service
	sync    *statussync.Synchronizer
}

func NewHandler(service Service, sync *statussync.Synchronizer) *Handler {
	return &Handler{service: service, sync: sync}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	v := rg.Group("/verification")
	{
		v.POST("", h.Submit)
		v.GET("/status", h.Status)
		v.POST("/status/refresh", h.RefreshStatus)
		v.GET("/draft", h.GetDraft)
		v.PUT("/draft", h.SaveDraft)
		v.DELETE("/draft", h.ClearDraft)
	}
}

func (h *Handler) Submit(c *gin.Context) {
	session, err := auth.SessionFrom(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
		return
	}

	in := SubmitInput{
		Business: BusinessInfo{
			BusinessName:    c.PostForm("business_name"),
			BusinessAddress: c.PostForm("business_address"),
			PhoneNumber:     c.PostForm("phone_number"),
		},
		Identity: Identity{
			IDType:   c.PostForm("id_type"),
			IDNumber: c.PostForm("id_number"),
		},
		Bank: BankInfo{
			BankName:      c.PostForm("bank_name"),
			AccountNumber: c.PostForm("account_number"),
			AccountName:   c.PostForm("account_name"),
		},
		Files: map[Slot]*FileUpload{},
	}

	var openFiles []multipart.File
	defer func() {
		for _, f := range openFiles {
			f.Close()
		}
	}()
	for _, slot := range Slots {
		fileHeader, err := c.FormFile(string(slot))
		if err != nil {
			continue // slot not attached in this request
		}
		f, err := fileHeader.Open()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		openFiles = append(openFiles, f)
		in.Files[slot] = &FileUpload{
			Name:        fileHeader.Filename,
			Size:        fileHeader.Size,
			ContentType: fileHeader.Header.Get("Content-Type"),
			Content:     f,
		}
	}

	req, err := h.service.Submit(c.Request.Context(), session.UserID, in)
	var verr *ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation failed", "code": "VALIDATION_ERROR", "missing": verr.Missing})
	case errors.Is(err, ErrFileTooLarge):
		c.JSON(http.StatusBadRequest, gin.H{"error": "file exceeds 5MB limit", "code": "FILE_TOO_LARGE"})
	case errors.Is(err, ErrUnsupportedType):
		c.JSON(http.StatusBadRequest, gin.H{"error": "only jpeg, png and pdf files are accepted", "code": "UNSUPPORTED_TYPE"})
	case errors.Is(err, ErrPendingExists):
		c.JSON(http.StatusConflict, gin.H{"error": "a submission is already under review"})
	case errors.Is(err, ErrAlreadyVerified):
		c.JSON(http.StatusConflict, gin.H{"error": "already verified"})
	case errors.Is(err, ErrUploadFailed):
		c.JSON(http.StatusBadGateway, gin.H{"error": "document upload failed, please retry", "code": "UPLOAD_FAILED"})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusCreated, req)
	}
}

func (h *Handler) Status(c *gin.Context) {
	session, err := auth.SessionFrom(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
		return
	}
	result, err := h.service.Status(c.Request.Context(), session.UserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}

// RefreshStatus reconciles the cached status with the authoritative record
// and reports whether the change warrants a notification. A backend failure
// degrades to the last-known status instead of erroring.
func (h *Handler) RefreshStatus(c *gin.Context) {
	session, err := auth.SessionFrom(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
		return
	}
	result, err := h.sync.Refresh(c.Request.Context(), session.UserID.String())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *Handler) GetDraft(c *gin.Context) {
	session, err := auth.SessionFrom(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
		return
	}
	d, reupload, err := h.service.LoadDraft(c.Request.Context(), session.UserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"draft": d, "needs_reupload": reupload})
}

func (h *Handler) SaveDraft(c *gin.Context) {
	session, err := auth.SessionFrom(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
		return
	}
	var d draft.Draft
	if err := c.ShouldBindJSON(&d); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}
	if err := h.service.SaveDraft(c.Request.Context(), session.UserID, &d); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "saved"})
}

func (h *Handler) ClearDraft(c *gin.Context) {
	session, err := auth.SessionFrom(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
		return
	}
	if err := h.service.ClearDraft(c.Request.Context(), session.UserID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "cleared"})
}
