package service

import (
	"context"
	"encoding/json"
	"io"
	"net/url"
	"sync"

	"github.com/webmaster254/alx-project-nexus-sub000/internal/apiclient"
)

type call struct {
	Method   string
	Path     string
	Params   url.Values
	Body     any
	Form     map[string]string
	Filename string
	Content  string
	Opts     int
}

// fakeAPI records calls and answers from canned JSON keyed by "METHOD path"
type fakeAPI struct {
	mu        sync.Mutex
	calls     []call
	responses map[string]string
	errs      map[string]error
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{responses: map[string]string{}, errs: map[string]error{}}
}

func (f *fakeAPI) on(method, path, body string) *fakeAPI {
	f.responses[method+" "+path] = body
	return f
}

func (f *fakeAPI) fail(method, path string, err error) *fakeAPI {
	f.errs[method+" "+path] = err
	return f
}

func (f *fakeAPI) last() call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[len(f.calls)-1]
}

func (f *fakeAPI) record(c call, out any) error {
	f.mu.Lock()
	f.calls = append(f.calls, c)
	key := c.Method + " " + c.Path
	err := f.errs[key]
	body := f.responses[key]
	f.mu.Unlock()

	if err != nil {
		return err
	}
	if out == nil || body == "" {
		return nil
	}
	return json.Unmarshal([]byte(body), out)
}

func (f *fakeAPI) Get(_ context.Context, path string, params url.Values, out any, opts ...apiclient.CallOption) error {
	return f.record(call{Method: "GET", Path: path, Params: params, Opts: len(opts)}, out)
}

func (f *fakeAPI) Post(_ context.Context, path string, body, out any, opts ...apiclient.CallOption) error {
	return f.record(call{Method: "POST", Path: path, Body: body, Opts: len(opts)}, out)
}

func (f *fakeAPI) Put(_ context.Context, path string, body, out any, opts ...apiclient.CallOption) error {
	return f.record(call{Method: "PUT", Path: path, Body: body, Opts: len(opts)}, out)
}

func (f *fakeAPI) Patch(_ context.Context, path string, body, out any, opts ...apiclient.CallOption) error {
	return f.record(call{Method: "PATCH", Path: path, Body: body, Opts: len(opts)}, out)
}

func (f *fakeAPI) Delete(_ context.Context, path string, out any, opts ...apiclient.CallOption) error {
	return f.record(call{Method: "DELETE", Path: path, Opts: len(opts)}, out)
}

func (f *fakeAPI) Upload(_ context.Context, path, field, filename string, file io.Reader, form map[string]string, out any, opts ...apiclient.CallOption) error {
	content, _ := io.ReadAll(file)
	return f.record(call{Method: "UPLOAD", Path: path, Form: form, Filename: field + ":" + filename, Content: string(content), Opts: len(opts)}, out)
}

func (f *fakeAPI) Download(_ context.Context, path string, opts ...apiclient.CallOption) ([]byte, string, error) {
	err := f.record(call{Method: "DOWNLOAD", Path: path, Opts: len(opts)}, nil)
	if err != nil {
		return nil, "", err
	}
	return []byte(f.responses["DOWNLOAD "+path]), "application/pdf", nil
}
