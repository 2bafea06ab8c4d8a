package utilities

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"

	"github.com/gin-gonic/gin"

	"github.com/webmaster254/alx-project-nexus-sub000/internal/model"
)

// SimulateAPICall runs handlerFunc on a JSON request without a router.
// A non nil user is put in the context the way RequireAuth does.
// It returns the recorder and the decoded JSON object of the body.
func SimulateAPICall(
	handlerFunc gin.HandlerFunc,
	method string,
	route string,
	body any,
	user *model.User,
) (*httptest.ResponseRecorder, map[string]any, error) {
	b, err := json.Marshal(body)
	if err != nil {
		return nil, nil, err
	}
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	req, err := http.NewRequest(method, route, bytes.NewReader(b))
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	if user != nil {
		c.Set("user", *user)
	}
	handlerFunc(c)

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		return rec, nil, err
	}
	return rec, resp, nil
}
