// Copyright 2025 SirSeer, LLC
//
// Licensed under the Business Source License 1.1 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://mariadb.com/bsl11
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package discussion

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

// ErrMalformed is wrapped by every RejectionError.
var ErrMalformed = errors.New("malformed discussion node")

// RejectionError explains why a raw node was not accepted.
type RejectionError struct {
	// ID is the node id when it could be read, otherwise empty.
	ID string

	// Reasons lists human readable problems, sorted.
	Reasons []string
}

func (e *RejectionError) Error() string {
	id := e.ID
	if id == "" {
		id = "<unknown>"
	}
	return fmt.Sprintf("%s %s: %s", ErrMalformed, id, strings.Join(e.Reasons, "; "))
}

func (e *RejectionError) Unwrap() error { return ErrMalformed }

// rawNode mirrors a discussion node as GitHub returns it. Pointer fields let
// validation tell a missing value from an empty one.
type rawNode struct {
	ID        *string      `json:"id" validate:"required,min=1"`
	Number    *int         `json:"number"`
	Title     *string      `json:"title"`
	Body      *string      `json:"body" validate:"required"`
	URL       *string      `json:"url" validate:"omitempty,url"`
	CreatedAt *time.Time   `json:"createdAt"`
	UpdatedAt *time.Time   `json:"updatedAt"`
	Author    *Author      `json:"author"`
	Labels    labelsField  `json:"labels"`
	Category  *CategoryRef `json:"category"`
}

// labelsField accepts either a bare label list or a connection object
// wrapping the list under "nodes".
type labelsField struct {
	Items []Label `json:"-" validate:"dive"`
}

// UnmarshalJSON resolves both label shapes into Items.
func (l *labelsField) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		l.Items = nil
		return nil
	}

	switch trimmed[0] {
	case '[':
		var items []Label
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return fmt.Errorf("labels list: %w", err)
		}
		l.Items = items
		return nil
	case '{':
		var wrapped struct {
			Nodes *[]Label `json:"nodes"`
		}
		if err := json.Unmarshal(trimmed, &wrapped); err != nil {
			return fmt.Errorf("labels connection: %w", err)
		}
		if wrapped.Nodes == nil {
			return errors.New("labels connection has no nodes list")
		}
		l.Items = *wrapped.Nodes
		return nil
	default:
		return fmt.Errorf("labels must be a list or an object with nodes, got %.20s", trimmed)
	}
}

type validatorSvc struct {
	validate   *validator.Validate
	translator ut.Translator
}

var (
	vOnce sync.Once
	vSvc  *validatorSvc
)

// schema returns the shared validator with english messages and json field names.
func schema() *validatorSvc {
	vOnce.Do(func() {
		enLoc := en.New()
		uni := ut.New(enLoc, enLoc)
		trans, _ := uni.GetTranslator("en")

		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			tag := fld.Tag.Get("json")
			if tag == "-" || tag == "" {
				return fld.Name
			}
			if idx := strings.Index(tag, ","); idx >= 0 {
				tag = tag[:idx]
			}
			return tag
		})
		_ = en_translations.RegisterDefaultTranslations(v, trans)

		vSvc = &validatorSvc{validate: v, translator: trans}
	})
	return vSvc
}

// Decode validates one raw discussion node and returns its normalized form.
// Nodes missing an id or body, or carrying a malformed labels, author or
// category value, are rejected with a *RejectionError.
func Decode(raw json.RawMessage) (*Discussion, error) {
	var node rawNode
	if err := json.Unmarshal(raw, &node); err != nil {
		return nil, &RejectionError{ID: peekID(raw), Reasons: []string{err.Error()}}
	}

	svc := schema()
	if err := svc.validate.Struct(&node); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return nil, &RejectionError{ID: deref(node.ID), Reasons: []string{err.Error()}}
		}
		reasons := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			reasons = append(reasons, fmt.Sprintf("%s: %s", fieldPath(fe), fe.Translate(svc.translator)))
		}
		sort.Strings(reasons)
		return nil, &RejectionError{ID: deref(node.ID), Reasons: reasons}
	}

	return node.normalize(), nil
}

// fieldPath renders the node-relative path of a failed field, for example
// "labels[0].name" or "author.login".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		ns = ns[i+1:]
	}
	return strings.Replace(ns, "labels.Items[", "labels[", 1)
}

// normalize copies a validated node into a Discussion.
func (n *rawNode) normalize() *Discussion {
	d := &Discussion{
		ID:       *n.ID,
		Body:     *n.Body,
		Title:    deref(n.Title),
		URL:      deref(n.URL),
		Author:   n.Author,
		Category: n.Category,
		Labels:   n.Labels.Items,
	}
	if n.Number != nil {
		d.Number = *n.Number
	}
	if n.CreatedAt != nil {
		d.CreatedAt = *n.CreatedAt
	}
	if n.UpdatedAt != nil {
		d.UpdatedAt = *n.UpdatedAt
	}
	if d.Labels == nil {
		d.Labels = []Label{}
	}
	return d
}

// peekID extracts the id of a node that failed to decode, for diagnostics.
func peekID(raw json.RawMessage) string {
	var head struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(raw, &head); err != nil {
		return ""
	}
	return head.ID
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
