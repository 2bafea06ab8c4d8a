// Package file provides HTTP handlers for file-related operations.
package file

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"mime"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/webmaster254/alx-project-nexus-sub000/internal/database"
	"github.com/webmaster254/alx-project-nexus-sub000/internal/model"
	"github.com/webmaster254/alx-project-nexus-sub000/internal/utilities"
)

// MaxUploadBytes is the largest accepted document or logo
const MaxUploadBytes = 10 << 20

// Object name prefixes in the bucket
const (
	DocumentObjectPrefix = "documents"
	LogoObjectPrefix     = "logos"
)

var (
	documentExtensions = map[string]bool{".pdf": true, ".doc": true, ".docx": true, ".txt": true}
	logoExtensions     = map[string]bool{".jpg": true, ".jpeg": true, ".png": true}
)

// FileController handles file related endpoints
type FileController struct {
	DB      *database.DBinstanceStruct
	Storage StorageClient
}

// NewFileController creates a new instance of FileController, storage may be nil to keep bytes in the database
func NewFileController(db *database.DBinstanceStruct, storage StorageClient) *FileController {
	return &FileController{
		DB:      db,
		Storage: storage,
	}
}

// upload holds a file read from a multipart form
type upload struct {
	name        string
	extension   string
	contentType string
	content     []byte
}

// readUpload reads form field fName and writes the error response itself when it returns false
func (fc *FileController) readUpload(c *gin.Context, fName string, allowed map[string]bool) (upload, bool) {
	rawFile, err := c.FormFile(fName)
	var maxBytesError *http.MaxBytesError
	if errors.As(err, &maxBytesError) {
		c.JSON(http.StatusRequestEntityTooLarge, utilities.ErrorResponse{
			Error: err.Error(),
		})
		return upload{}, false
	}
	if err != nil {
		c.JSON(http.StatusBadRequest, utilities.ValidationErrorResponse{
			Error:   fmt.Sprintf("Failed to retrieve file: %s", err.Error()),
			Details: map[string][]string{fName: {"No file was submitted."}},
		})
		return upload{}, false
	}
	if rawFile.Size > MaxUploadBytes {
		c.JSON(http.StatusRequestEntityTooLarge, utilities.ErrorResponse{
			Error: "File size is larger than 10 MB",
		})
		return upload{}, false
	}

	extension := strings.ToLower(filepath.Ext(rawFile.Filename))
	if !allowed[extension] {
		c.JSON(http.StatusUnsupportedMediaType, utilities.ErrorResponse{
			Error: fmt.Sprintf("Unsupported file extension: %s", extension),
		})
		return upload{}, false
	}

	f, err := rawFile.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{Error: "Cannot open file"})
		return upload{}, false
	}
	defer func() {
		if err := f.Close(); err != nil {
			log.Printf("failed to close uploaded file: %v", err)
		}
	}()

	content, err := io.ReadAll(f)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{Error: "Cannot read file"})
		return upload{}, false
	}

	contentType := mime.TypeByExtension(extension)
	if contentType == "" {
		contentType = http.DetectContentType(content)
	}
	return upload{
		name:        filepath.Base(rawFile.Filename),
		extension:   extension,
		contentType: contentType,
		content:     content,
	}, true
}

// ListDocuments returns the caller's documents
// @Summary List documents
// @Tags Document
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Success 200 {object} model.Paginated[model.Document]
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Router /documents/ [get]
func (fc *FileController) ListDocuments(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}
	query := fc.DB.Model(&model.Document{}).Where("owner_id = ?", user.ID).Order("uploaded_at DESC").Order("id DESC")
	page, err := utilities.Paginate[model.Document](c, query)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Database error: %s", err.Error()),
		})
		return
	}
	c.JSON(http.StatusOK, page)
}

// UploadDocument function stores a resume, cover letter or portfolio of the caller
// @Summary Upload document
// @Description Only file that smaller than 10 MB with .pdf, .doc, .docx or .txt extension is permitted
// @Tags Document
// @Accept mpfd
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param file formData file true "Document file"
// @Param document_type formData string true "resume, cover_letter or portfolio"
// @Success 201 {object} model.Document
// @Failure 400 {object} utilities.ValidationErrorResponse "Missing file or invalid document type"
// @Failure 413 {object} utilities.ErrorResponse "File size is larger than 10 MB"
// @Failure 415 {object} utilities.ErrorResponse "File extension is not allowed"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /documents/ [post]
func (fc *FileController) UploadDocument(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	up, ok := fc.readUpload(c, "file", documentExtensions)
	if !ok {
		return
	}
	docType := model.DocumentType(c.PostForm("document_type"))
	if !docType.Valid() {
		c.JSON(http.StatusBadRequest, utilities.ValidationErrorResponse{
			Error:   "Invalid document type",
			Details: map[string][]string{"document_type": {fmt.Sprintf("%q is not a valid choice.", docType)}},
		})
		return
	}

	doc := model.Document{
		OwnerID:     user.ID,
		Type:        docType,
		FileName:    up.name,
		ContentType: up.contentType,
		Size:        int64(len(up.content)),
		File:        model.File{ContentType: up.contentType},
	}
	if err := fc.persistFileData(c.Request.Context(), &doc.File, up.content, up.extension, DocumentObjectPrefix); err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to store document: %s", err.Error()),
		})
		return
	}
	if err := fc.DB.Create(&doc).Error; err != nil {
		fc.removeObject(c.Request.Context(), doc.File)
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to save document: %s", err.Error()),
		})
		return
	}
	c.JSON(http.StatusCreated, doc)
}

// ownDocument loads document id of the caller, staff may load any document
func (fc *FileController) ownDocument(c *gin.Context, allowStaff bool) (model.Document, bool) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return model.Document{}, false
	}
	id, ok := utilities.ParamID(c, "id")
	if !ok {
		return model.Document{}, false
	}

	query := fc.DB.Preload("File").Where("id = ?", id)
	if !allowStaff || !user.IsStaff {
		query = query.Where("owner_id = ?", user.ID)
	}
	var doc model.Document
	if err := query.First(&doc).Error; err != nil {
		utilities.RespondDBError(c, err, "Document")
		return model.Document{}, false
	}
	return doc, true
}

// DeleteDocument removes a document of the caller, applications that used it keep their other documents
// @Summary Delete document
// @Tags Document
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path int true "Document id"
// @Success 204 "Deleted"
// @Failure 404 {object} utilities.ErrorResponse "Document not found"
// @Router /documents/{id}/ [delete]
func (fc *FileController) DeleteDocument(c *gin.Context) {
	doc, ok := fc.ownDocument(c, false)
	if !ok {
		return
	}

	err := fc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM application_documents WHERE document_id = ?", doc.ID).Error; err != nil {
			return err
		}
		if err := tx.Delete(&doc).Error; err != nil {
			return err
		}
		return tx.Delete(&model.File{}, doc.FileID).Error
	})
	if err != nil {
		utilities.RespondDBError(c, err, "Document")
		return
	}
	fc.removeObject(c.Request.Context(), doc.File)
	c.Status(http.StatusNoContent)
}

// DownloadDocument sends the document bytes to its owner or to staff
// @Summary Download document
// @Tags Document
// @Produce octet-stream
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path int true "Document id"
// @Success 200 {string} binary "Document content"
// @Failure 404 {object} utilities.ErrorResponse "Document not found"
// @Router /documents/{id}/download/ [get]
func (fc *FileController) DownloadDocument(c *gin.Context) {
	doc, ok := fc.ownDocument(c, true)
	if !ok {
		return
	}
	fc.writeFileResponse(c, &doc.File, doc.FileName)
}

// UploadCompanyLogo function handles company's logo uploading and updating company in database.
// @Summary Upload logo file for company
// @Description Only file that smaller than 10 MB with .jpg, .jpeg, or .png extension is permitted
// @Tags Company
// @Accept mpfd
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path int true "Company id"
// @Param logo formData file true "Upload your logo file"
// @Success 200 {object} model.Company "Successfully upload logo"
// @Failure 403 {object} utilities.ErrorResponse "Not logged in as staff"
// @Failure 404 {object} utilities.ErrorResponse "Company not found"
// @Failure 413 {object} utilities.ErrorResponse "File size is larger than 10 MB"
// @Failure 415 {object} utilities.ErrorResponse "File extension is not allowed"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /companies/{id}/logo/ [post]
func (fc *FileController) UploadCompanyLogo(c *gin.Context) {
	id, ok := utilities.ParamID(c, "id")
	if !ok {
		return
	}
	var company model.Company
	if err := fc.DB.Preload("LogoFile").First(&company, id).Error; err != nil {
		utilities.RespondDBError(c, err, "Company")
		return
	}

	up, ok := fc.readUpload(c, "logo", logoExtensions)
	if !ok {
		return
	}

	logo := model.File{ContentType: up.contentType}
	if err := fc.persistFileData(c.Request.Context(), &logo, up.content, up.extension, LogoObjectPrefix); err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to store logo: %s", err.Error()),
		})
		return
	}

	previous := company.LogoFile
	err := fc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&logo).Error; err != nil {
			return err
		}
		company.LogoFileID = &logo.ID
		company.LogoURL = fmt.Sprintf("/api/v1/files/%d/", logo.ID)
		if err := tx.Model(&company).Select("logo_file_id", "logo_url").Updates(&company).Error; err != nil {
			return err
		}
		if previous != nil {
			return tx.Delete(previous).Error
		}
		return nil
	})
	if err != nil {
		fc.removeObject(c.Request.Context(), logo)
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to update company: %s", err.Error()),
		})
		return
	}
	if previous != nil {
		fc.removeObject(c.Request.Context(), *previous)
	}

	company.LogoFile = nil
	if err := fc.DB.Preload("Industry").First(&company, id).Error; err != nil {
		utilities.RespondDBError(c, err, "Company")
		return
	}
	c.JSON(http.StatusOK, company)
}

// GetFile function sends a public file, only company logos are public.
// @Summary Retrieve company logo
// @Tags File
// @Produce octet-stream
// @Param id path int true "ID of wanted file"
// @Success 200 {string} binary "Successfully retrieve file"
// @Failure 404 {object} utilities.ErrorResponse "Given file id not found"
// @Failure 500 {object} utilities.ErrorResponse "Fail to send file content"
// @Router /files/{id}/ [get]
func (fc *FileController) GetFile(c *gin.Context) {
	id, ok := utilities.ParamID(c, "id")
	if !ok {
		return
	}
	var file model.File
	err := fc.DB.Where("id = ? AND id IN (SELECT logo_file_id FROM companies WHERE logo_file_id IS NOT NULL)", id).
		First(&file).Error
	if err != nil {
		utilities.RespondDBError(c, err, "File")
		return
	}
	fc.writeFileResponse(c, &file, "")
}

func (fc *FileController) writeFileResponse(c *gin.Context, file *model.File, name string) {
	if name == "" {
		name = fmt.Sprint(file.ID) + file.Extension
	}
	contentType := file.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	if file.StorageObjectName != nil {
		if fc.Storage == nil {
			c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
				Error: "Cloud storage is disabled while the requested file is stored remotely",
			})
			return
		}
		reader, size, err := fc.Storage.DownloadFile(c.Request.Context(), *file.StorageObjectName)
		if err != nil {
			c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
				Error: fmt.Sprintf("Failed to download file from storage: %s", err.Error()),
			})
			return
		}
		defer func() {
			if err := reader.Close(); err != nil {
				log.Printf("failed to close storage reader: %v", err)
			}
		}()

		c.Writer.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": name}))
		c.Writer.Header().Set("Content-Type", contentType)
		if size > 0 {
			c.Writer.Header().Set("Content-Length", fmt.Sprint(size))
		}
		if _, err := io.Copy(c.Writer, reader); err != nil {
			fc.handleWriterError(c, err)
		}
		return
	}

	c.Writer.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": name}))
	c.Writer.Header().Set("Content-Type", contentType)
	c.Writer.Header().Set("Content-Length", fmt.Sprint(len(file.Content)))
	if _, err := c.Writer.Write(file.Content); err != nil {
		fc.handleWriterError(c, err)
	}
}

func (fc *FileController) handleWriterError(c *gin.Context, err error) {
	log.Printf("failed to send file content: %v", err)
	if !c.Writer.Written() {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: "Failed to send file content",
		})
	} else {
		c.Abort()
	}
}

func (fc *FileController) persistFileData(ctx context.Context, file *model.File, fileBytes []byte, extension, prefix string) error {
	file.Extension = extension
	if fc.Storage == nil {
		file.Content = fileBytes
		file.StorageObjectName = nil
		return nil
	}

	objectName := fmt.Sprintf("%s/%s%s", prefix, uuid.NewString(), extension)
	if err := fc.Storage.UploadFile(ctx, objectName, bytes.NewReader(fileBytes)); err != nil {
		return err
	}

	file.StorageObjectName = &objectName
	file.Content = nil
	return nil
}

// removeObject deletes the bucket object of file, failures only leave an orphan for clean-db
func (fc *FileController) removeObject(ctx context.Context, file model.File) {
	if fc.Storage == nil || file.StorageObjectName == nil {
		return
	}
	if err := fc.Storage.DeleteFile(ctx, *file.StorageObjectName); err != nil {
		log.Printf("failed to delete storage object %s: %v", *file.StorageObjectName, err)
	}
}
