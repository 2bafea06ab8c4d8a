package file

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/webmaster254/alx-project-nexus-sub000/internal/auth"
	"github.com/webmaster254/alx-project-nexus-sub000/internal/database"
	"github.com/webmaster254/alx-project-nexus-sub000/internal/middleware"
	"github.com/webmaster254/alx-project-nexus-sub000/internal/model"
	"github.com/webmaster254/alx-project-nexus-sub000/internal/testutil"
)

var testDB *database.DBinstanceStruct

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	auth.SetSecretKey("file-test-secret")

	var err error
	testDB, err = database.NewTestDB()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to start test db: %v\n", err)
		os.Exit(1)
	}
	code := m.Run()
	_ = testDB.Close()
	os.Exit(code)
}

func newRouter(storage StorageClient) *gin.Engine {
	r := gin.New()
	fc := NewFileController(testDB, storage)
	authed := middleware.RequireAuth(testDB)

	docs := r.Group("/documents", authed)
	docs.GET("/", fc.ListDocuments)
	docs.POST("/", middleware.SizeLimit(MaxUploadBytes), fc.UploadDocument)
	docs.DELETE("/:id/", fc.DeleteDocument)
	docs.GET("/:id/download/", fc.DownloadDocument)
	r.POST("/companies/:id/logo/", authed, middleware.CheckStaff(), middleware.SizeLimit(MaxUploadBytes), fc.UploadCompanyLogo)
	r.GET("/files/:id/", fc.GetFile)
	return r
}

func token(t *testing.T, email string) string {
	t.Helper()
	access, err := auth.GetAccessToken(t, testDB, email, database.SeedPassword)
	require.NoError(t, err)
	return access
}

func uploadDocument(t *testing.T, r http.Handler, access, name string, content []byte) model.Document {
	t.Helper()
	rec, _ := testutil.MakeMultipartRequest(map[string]string{"document_type": "resume"}, "file", name, content, access, r, "/documents/")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var doc model.Document
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &doc))
	return doc
}

func TestPersistFileData_UsesCloudStorage(t *testing.T) {
	mockStorage := newMockStorageClient()
	ctrl := NewFileController(nil, mockStorage)
	file := &model.File{}
	data := []byte("hello world")

	err := ctrl.persistFileData(context.Background(), file, data, ".pdf", DocumentObjectPrefix)
	require.NoError(t, err)

	require.NotNil(t, file.StorageObjectName)
	require.True(t, strings.HasPrefix(*file.StorageObjectName, DocumentObjectPrefix+"/"))
	require.Nil(t, file.Content)
	require.Equal(t, ".pdf", file.Extension)
	require.Equal(t, data, mockStorage.object(*file.StorageObjectName))
}

func TestPersistFileData_FallsBackToDatabase(t *testing.T) {
	ctrl := NewFileController(nil, nil)
	file := &model.File{}
	data := []byte("inline")

	err := ctrl.persistFileData(context.Background(), file, data, ".png", LogoObjectPrefix)
	require.NoError(t, err)

	require.Nil(t, file.StorageObjectName)
	require.Equal(t, data, file.Content)
	require.Equal(t, ".png", file.Extension)
}

func TestPersistFileData_UploadError(t *testing.T) {
	mockStorage := newMockStorageClient()
	mockStorage.uploadErr = errors.New("boom")
	ctrl := NewFileController(nil, mockStorage)

	err := ctrl.persistFileData(context.Background(), &model.File{}, []byte("fail"), ".pdf", DocumentObjectPrefix)
	require.EqualError(t, err, "boom")
}

func TestWriteFileResponse(t *testing.T) {
	objectName := "documents/foo"
	cases := []struct {
		name        string
		storage     *mockStorageClient
		file        model.File
		fileName    string
		wantCode    int
		wantBody    string
		disposition string
	}{
		{
			name:        "cloud storage",
			storage:     newMockStorageClient(objectName, "downloaded"),
			file:        model.File{ID: 42, Extension: ".pdf", ContentType: "application/pdf", StorageObjectName: &objectName},
			wantCode:    http.StatusOK,
			wantBody:    "downloaded",
			disposition: "attachment; filename=42.pdf",
		},
		{
			name:        "database content",
			file:        model.File{ID: 7, Extension: ".jpg", Content: []byte("inline")},
			fileName:    "cv final.txt",
			wantCode:    http.StatusOK,
			wantBody:    "inline",
			disposition: `attachment; filename="cv final.txt"`,
		},
		{
			name:     "remote but storage disabled",
			file:     model.File{ID: 8, Extension: ".png", StorageObjectName: &objectName},
			wantCode: http.StatusInternalServerError,
			wantBody: "Cloud storage is disabled",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var storage StorageClient
			if tc.storage != nil {
				storage = tc.storage
			}
			ctrl := NewFileController(nil, storage)
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			ctrl.writeFileResponse(c, &tc.file, tc.fileName)

			require.Equal(t, tc.wantCode, w.Code)
			assert.Contains(t, w.Body.String(), tc.wantBody)
			if tc.disposition != "" {
				assert.Equal(t, tc.disposition, w.Header().Get("Content-Disposition"))
				assert.Equal(t, fmt.Sprint(len(tc.wantBody)), w.Header().Get("Content-Length"))
			}
		})
	}
}

func TestUploadDocument_Validation(t *testing.T) {
	r := newRouter(nil)
	access := token(t, "jane@example.com")

	cases := []struct {
		name     string
		fields   map[string]string
		fileName string
		content  []byte
		want     int
	}{
		{"bad extension", map[string]string{"document_type": "resume"}, "cv.exe", []byte("MZ"), http.StatusUnsupportedMediaType},
		{"bad type", map[string]string{"document_type": "photo"}, "cv.pdf", []byte("%PDF"), http.StatusBadRequest},
		{"missing type", nil, "cv.pdf", []byte("%PDF"), http.StatusBadRequest},
		{"too large", map[string]string{"document_type": "resume"}, "cv.pdf", make([]byte, MaxUploadBytes+1), http.StatusRequestEntityTooLarge},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec, _ := testutil.MakeMultipartRequest(tc.fields, "file", tc.fileName, tc.content, access, r, "/documents/")
			assert.Equal(t, tc.want, rec.Code, rec.Body.String())
		})
	}

	rec, resp := testutil.MakeMultipartRequest(map[string]string{"document_type": "resume"}, "", "", nil, access, r, "/documents/")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, resp["details"], "file")
}

func TestDocuments_DatabaseBacked(t *testing.T) {
	r := newRouter(nil)
	jane := token(t, "jane@example.com")

	doc := uploadDocument(t, r, jane, "jane-cv.txt", []byte("Jane Doe, Go developer"))
	assert.Equal(t, model.DocumentResume, doc.Type)
	assert.Equal(t, "jane-cv.txt", doc.FileName)
	assert.EqualValues(t, 22, doc.Size)
	assert.True(t, strings.HasPrefix(doc.ContentType, "text/plain"))

	rec, _ := testutil.MakeJSONRequest(nil, jane, r, "/documents/", http.MethodGet)
	require.Equal(t, http.StatusOK, rec.Code)
	var page model.Paginated[model.Document]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	require.NotEmpty(t, page.Results)
	assert.Equal(t, doc.ID, page.Results[0].ID)

	download := fmt.Sprintf("/documents/%d/download/", doc.ID)
	rec, _ = testutil.MakeJSONRequest(nil, jane, r, download, http.MethodGet)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Jane Doe, Go developer", rec.Body.String())
	assert.Equal(t, "attachment; filename=jane-cv.txt", rec.Header().Get("Content-Disposition"))

	rec, _ = testutil.MakeJSONRequest(nil, token(t, "john@example.com"), r, download, http.MethodGet)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec, _ = testutil.MakeJSONRequest(nil, token(t, "staff@jobboard.dev"), r, download, http.MethodGet)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = testutil.MakeJSONRequest(nil, token(t, "staff@jobboard.dev"), r, fmt.Sprintf("/documents/%d/", doc.ID), http.MethodDelete)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	var stored model.Document
	require.NoError(t, testDB.First(&stored, doc.ID).Error)
	rec, _ = testutil.MakeJSONRequest(nil, jane, r, fmt.Sprintf("/documents/%d/", doc.ID), http.MethodDelete)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.ErrorIs(t, testDB.First(&model.File{}, stored.FileID).Error, gorm.ErrRecordNotFound)
}

func TestDeleteDocument_RemovesObjectAndApplicationLink(t *testing.T) {
	storage := newMockStorageClient()
	r := newRouter(storage)
	jane := token(t, "jane@example.com")

	doc := uploadDocument(t, r, jane, "cv.pdf", []byte("%PDF-1.7"))
	names, err := storage.ListObjects(context.Background(), DocumentObjectPrefix+"/")
	require.NoError(t, err)
	require.Len(t, names, 1)

	app := model.Application{JobID: database.SeedAnalystJob.ID, ApplicantID: database.SeedSeeker.ID,
		Status: model.ApplicationPending, Documents: []model.Document{{ID: doc.ID}}}
	require.NoError(t, testDB.Omit("Documents.*").Create(&app).Error)
	t.Cleanup(func() {
		testDB.Exec("DELETE FROM application_documents WHERE application_id = ?", app.ID)
		testDB.Delete(&app)
	})

	rec, _ := testutil.MakeJSONRequest(nil, jane, r, fmt.Sprintf("/documents/%d/download/", doc.ID), http.MethodGet)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "%PDF-1.7", rec.Body.String())
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))

	rec, _ = testutil.MakeJSONRequest(nil, jane, r, fmt.Sprintf("/documents/%d/", doc.ID), http.MethodDelete)
	require.Equal(t, http.StatusNoContent, rec.Code, rec.Body.String())

	assert.Nil(t, storage.object(names[0]))
	var links int64
	require.NoError(t, testDB.Table("application_documents").Where("application_id = ?", app.ID).Count(&links).Error)
	assert.Zero(t, links)
	require.NoError(t, testDB.First(&app, app.ID).Error)
}

func TestUploadCompanyLogo(t *testing.T) {
	storage := newMockStorageClient()
	r := newRouter(storage)
	staff := token(t, "staff@jobboard.dev")
	company := model.Company{Name: "Logo Co", IsActive: true}
	require.NoError(t, testDB.Create(&company).Error)
	t.Cleanup(func() {
		var reloaded model.Company
		testDB.First(&reloaded, company.ID)
		testDB.Delete(&reloaded)
		if reloaded.LogoFileID != nil {
			testDB.Delete(&model.File{}, *reloaded.LogoFileID)
		}
	})
	path := fmt.Sprintf("/companies/%d/logo/", company.ID)

	rec, _ := testutil.MakeMultipartRequest(nil, "logo", "logo.png", []byte("png"), token(t, "jane@example.com"), r, path)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	rec, _ = testutil.MakeMultipartRequest(nil, "logo", "logo.gif", []byte("gif"), staff, r, path)
	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
	rec, _ = testutil.MakeMultipartRequest(nil, "logo", "logo.png", []byte("png"), staff, r, "/companies/999999/logo/")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, _ = testutil.MakeMultipartRequest(nil, "logo", "first.png", []byte("first"), staff, r, path)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	rec, _ = testutil.MakeMultipartRequest(nil, "logo", "second.jpg", []byte("second"), staff, r, path)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var updated model.Company
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	require.True(t, strings.HasPrefix(updated.LogoURL, "/api/v1/files/"))

	names, err := storage.ListObjects(context.Background(), LogoObjectPrefix+"/")
	require.NoError(t, err)
	require.Len(t, names, 1, "replaced logo object is removed")

	rec, _ = testutil.MakeJSONRequest(nil, "", r, strings.TrimPrefix(updated.LogoURL, "/api/v1"), http.MethodGet)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "second", rec.Body.String())
	assert.Equal(t, "image/jpeg", rec.Header().Get("Content-Type"))
}

func TestGetFile_OnlyLogos(t *testing.T) {
	r := newRouter(nil)
	jane := token(t, "jane@example.com")
	doc := uploadDocument(t, r, jane, "private.txt", []byte("private"))
	t.Cleanup(func() {
		testutil.MakeJSONRequest(nil, jane, r, fmt.Sprintf("/documents/%d/", doc.ID), http.MethodDelete)
	})

	var file model.Document
	require.NoError(t, testDB.First(&file, doc.ID).Error)
	rec, _ := testutil.MakeJSONRequest(nil, "", r, fmt.Sprintf("/files/%d/", file.FileID), http.MethodGet)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

type mockStorageClient struct {
	mu        sync.Mutex
	objects   map[string][]byte
	uploadErr error
}

// newMockStorageClient takes name, content pairs to start with
func newMockStorageClient(pairs ...string) *mockStorageClient {
	m := &mockStorageClient{objects: make(map[string][]byte)}
	for i := 0; i+1 < len(pairs); i += 2 {
		m.objects[pairs[i]] = []byte(pairs[i+1])
	}
	return m
}

func (m *mockStorageClient) object(name string) []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.objects[name]
}

func (m *mockStorageClient) UploadFile(ctx context.Context, objectName string, fileData io.Reader) error {
	if m.uploadErr != nil {
		return m.uploadErr
	}
	buf, err := io.ReadAll(fileData)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[objectName] = buf
	return nil
}

func (m *mockStorageClient) DownloadFile(ctx context.Context, objectName string) (io.ReadCloser, int64, error) {
	data := m.object(objectName)
	if data == nil {
		return nil, 0, ErrObjectNotExist
	}
	return io.NopCloser(bytes.NewReader(data)), int64(len(data)), nil
}

func (m *mockStorageClient) DeleteFile(ctx context.Context, objectName string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, objectName)
	return nil
}

func (m *mockStorageClient) ListObjects(ctx context.Context, prefix string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var names []string
	for name := range m.objects {
		if strings.HasPrefix(name, prefix) {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names, nil
}
