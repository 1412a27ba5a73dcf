package http

import (
	"bytes"
	"encoding/json"
	"io"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/issuetracker/issue-tracker-backend/internal/issues/domain"
)

const maxBodyBytes = 1 << 20

// params holds the supplied keys of a query string or request body.
type params map[string]string

// field returns the first supplied key among names.
func (p params) field(names ...string) domain.Field {
	for _, n := range names {
		if v, ok := p[n]; ok {
			return domain.Some(v)
		}
	}
	return domain.Field{}
}

func queryParams(c *gin.Context) params {
	out := params{}
	for k, vs := range c.Request.URL.Query() {
		if len(vs) > 0 {
			out[k] = vs[0]
		}
	}
	return out
}

// bodyParams decodes a JSON or urlencoded body. Anything unreadable is
// treated as an empty body.
func bodyParams(c *gin.Context) params {
	out := params{}
	if c.Request.Body == nil {
		return out
	}
	raw, err := io.ReadAll(io.LimitReader(c.Request.Body, maxBodyBytes))
	if err != nil || len(bytes.TrimSpace(raw)) == 0 {
		return out
	}

	if c.ContentType() == gin.MIMEPOSTForm {
		vals, err := url.ParseQuery(string(raw))
		if err != nil {
			return out
		}
		for k, vs := range vals {
			if len(vs) > 0 {
				out[k] = vs[0]
			}
		}
		return out
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var m map[string]interface{}
	if err := dec.Decode(&m); err != nil {
		return out
	}
	for k, v := range m {
		if s, ok := stringify(v); ok {
			out[k] = s
		}
	}
	return out
}

// stringify renders a JSON scalar as the string a form field would carry.
// null is reported as not supplied.
func stringify(v interface{}) (string, bool) {
	switch t := v.(type) {
	case nil:
		return "", false
	case string:
		return t, true
	case bool:
		if t {
			return "true", true
		}
		return "false", true
	case json.Number:
		return t.String(), true
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return "", false
		}
		return strings.TrimSpace(string(b)), true
	}
}

func (p params) filter() domain.Filter {
	return domain.Filter{
		ID:         p.field("id", "_id"),
		IssueTitle: p.field("issue_title"),
		IssueText:  p.field("issue_text"),
		CreatedOn:  p.field("created_on"),
		UpdatedOn:  p.field("updated_on"),
		CreatedBy:  p.field("created_by"),
		AssignedTo: p.field("assigned_to"),
		StatusText: p.field("status_text"),
		Open:       p.field("open"),
	}
}

func (p params) createInput() domain.CreateInput {
	return domain.CreateInput{
		IssueTitle: p.field("issue_title"),
		IssueText:  p.field("issue_text"),
		CreatedBy:  p.field("created_by"),
		AssignedTo: p.field("assigned_to"),
		StatusText: p.field("status_text"),
	}
}

func (p params) updateInput() domain.UpdateInput {
	return domain.UpdateInput{
		ID:         p.field("id", "_id"),
		IssueTitle: p.field("issue_title"),
		IssueText:  p.field("issue_text"),
		CreatedBy:  p.field("created_by"),
		AssignedTo: p.field("assigned_to"),
		StatusText: p.field("status_text"),
		Open:       p.field("open"),
		CreatedOn:  p.field("created_on"),
		UpdatedOn:  p.field("updated_on"),
	}
}
