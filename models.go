package goadmin

import (
	"context"
	"errors"
)

var (
	// ErrNotFound no row with that id exists.
	ErrNotFound = errors.New("record not found")
	// ErrNotImplemented the descriptor does not support this operation.
	ErrNotImplemented = errors.New("operation not implemented by this model admin")
)

// Row is one record as handed to and from descriptors. Keys are field names;
// values must be JSON-serializable.
type Row = map[string]interface{}

// Query carries the list parameters parsed from a request.
type Query struct {
	Offset  int
	Limit   int
	SortBy  string // field name, "-" prefix for descending, "" for store order
	Search  string // matched against the descriptor's search fields
	Filters map[string]string
}

// Permissions tells the frontend which operations to offer for a model. The
// API enforces them too.
type Permissions struct {
	Add    bool `json:"add"`
	Change bool `json:"change"`
	Delete bool `json:"delete"`
	Export bool `json:"export"`
}

// ModelConfig describes how a model is presented and which fields the panel
// may touch. Descriptors return it from Config.
type ModelConfig struct {
	ListFields     []string `json:"list_fields"`
	SearchFields   []string `json:"search_fields"`
	FilterFields   []string `json:"filter_fields"`
	SortableBy     []string `json:"sortable_by"`
	FormFields     []string `json:"form_fields"`
	ReadonlyFields []string `json:"readonly_fields"`
	// Exclude lists fields that are stripped from every row before it
	// leaves the server (password hashes and the like).
	Exclude     []string    `json:"-"`
	PerPage     int         `json:"per_page"`
	Description string      `json:"-"` // Markdown, rendered by /api/configuration
	Permissions Permissions `json:"permissions"`
}

// ModelAdmin is the descriptor a host application registers for each model it
// wants managed. The admin panel never talks to a database itself; all data
// access goes through these methods, so any storage can sit behind them. The
// orms subpackages provide ready-made bases.
type ModelAdmin interface {
	// ModelName returns the registry key, e.g. "User".
	ModelName() string

	// Config returns the presentation and permission config.
	Config() ModelConfig

	// List returns one page of rows plus the total count for the query.
	List(ctx context.Context, q Query) ([]Row, int, error)

	// Get returns the row with the given id, or ErrNotFound.
	Get(ctx context.Context, id string) (Row, error)

	// Save creates (id == "") or updates (id != "") a row and returns it
	// as stored. Updating a missing row returns ErrNotFound.
	Save(ctx context.Context, id string, fields Row) (Row, error)

	// Delete removes the row with the given id, or returns ErrNotFound.
	Delete(ctx context.Context, id string) error
}

// UserModelAdmin is implemented by the descriptor registered under
// Settings.UserModel. It is how sign-in verifies credentials.
type UserModelAdmin interface {
	ModelAdmin

	// Authenticate checks the credentials and returns the user's id, or
	// ErrUnauthorized when they don't match an account.
	Authenticate(ctx context.Context, username, password string) (string, error)
}

// ActionPerformer is an optional descriptor capability: named bulk actions
// dispatched by POST /api/action/:model/:action.
type ActionPerformer interface {
	// Actions lists the action names offered to the frontend.
	Actions() []string

	// PerformAction runs a named action over the given row ids.
	PerformAction(ctx context.Context, action string, ids []string) error
}

// PasswordChanger is an optional capability of the user-model descriptor,
// backing PATCH /api/change-password/:id.
type PasswordChanger interface {
	ChangePassword(ctx context.Context, id, password string) error
}

// BaseModelAdmin carries the static configuration of a descriptor and
// implements the boilerplate of ModelAdmin. Embed it and override the data
// methods; the embedded versions return ErrNotImplemented.
type BaseModelAdmin struct {
	// Name keys the registry. Required.
	Name string

	ListFields     []string
	SearchFields   []string
	FilterFields   []string
	SortableBy     []string
	FormFields     []string
	ReadonlyFields []string
	Exclude        []string

	// PerPage is the default list page size; 0 means 25.
	PerPage int

	// Description is Markdown shown on the model's page.
	Description string

	// Disable flags remove operations from the panel. The zero value
	// allows everything.
	DisableAdd    bool
	DisableChange bool
	DisableDelete bool
	DisableExport bool
}

// ModelName returns the registry key.
func (b *BaseModelAdmin) ModelName() string { return b.Name }

// Config assembles the ModelConfig from the carrier fields.
func (b *BaseModelAdmin) Config() ModelConfig {
	perPage := b.PerPage
	if perPage <= 0 {
		perPage = 25
	}
	return ModelConfig{
		ListFields:     b.ListFields,
		SearchFields:   b.SearchFields,
		FilterFields:   b.FilterFields,
		SortableBy:     b.SortableBy,
		FormFields:     b.FormFields,
		ReadonlyFields: b.ReadonlyFields,
		Exclude:        b.Exclude,
		PerPage:        perPage,
		Description:    b.Description,
		Permissions: Permissions{
			Add:    !b.DisableAdd,
			Change: !b.DisableChange,
			Delete: !b.DisableDelete,
			Export: !b.DisableExport,
		},
	}
}

// List implements ModelAdmin.
func (b *BaseModelAdmin) List(context.Context, Query) ([]Row, int, error) {
	return nil, 0, ErrNotImplemented
}

// Get implements ModelAdmin.
func (b *BaseModelAdmin) Get(context.Context, string) (Row, error) {
	return nil, ErrNotImplemented
}

// Save implements ModelAdmin.
func (b *BaseModelAdmin) Save(context.Context, string, Row) (Row, error) {
	return nil, ErrNotImplemented
}

// Delete implements ModelAdmin.
func (b *BaseModelAdmin) Delete(context.Context, string) error {
	return ErrNotImplemented
}

// ExtendableModelAdmin implements ModelAdmin and UserModelAdmin by calling
// the field functions that are set and falling back to the embedded base for
// the rest. Handy for tests and for models that live outside a database.
type ExtendableModelAdmin struct {
	BaseModelAdmin

	ListFunc           func(ctx context.Context, q Query) ([]Row, int, error)
	GetFunc            func(ctx context.Context, id string) (Row, error)
	SaveFunc           func(ctx context.Context, id string, fields Row) (Row, error)
	DeleteFunc         func(ctx context.Context, id string) error
	AuthenticateFunc   func(ctx context.Context, username, password string) (string, error)
	ChangePasswordFunc func(ctx context.Context, id, password string) error
}

// List delegates to ListFunc.
func (m *ExtendableModelAdmin) List(ctx context.Context, q Query) ([]Row, int, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, q)
	}
	return m.BaseModelAdmin.List(ctx, q)
}

// Get delegates to GetFunc.
func (m *ExtendableModelAdmin) Get(ctx context.Context, id string) (Row, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, id)
	}
	return m.BaseModelAdmin.Get(ctx, id)
}

// Save delegates to SaveFunc.
func (m *ExtendableModelAdmin) Save(ctx context.Context, id string, fields Row) (Row, error) {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, id, fields)
	}
	return m.BaseModelAdmin.Save(ctx, id, fields)
}

// Delete delegates to DeleteFunc.
func (m *ExtendableModelAdmin) Delete(ctx context.Context, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return m.BaseModelAdmin.Delete(ctx, id)
}

// Authenticate delegates to AuthenticateFunc or fails closed.
func (m *ExtendableModelAdmin) Authenticate(ctx context.Context, username, password string) (string, error) {
	if m.AuthenticateFunc != nil {
		return m.AuthenticateFunc(ctx, username, password)
	}
	return "", ErrUnauthorized
}

// ChangePassword delegates to ChangePasswordFunc.
func (m *ExtendableModelAdmin) ChangePassword(ctx context.Context, id, password string) error {
	if m.ChangePasswordFunc != nil {
		return m.ChangePasswordFunc(ctx, id, password)
	}
	return ErrNotImplemented
}

// stripExcluded returns a copy of row without the descriptor's excluded
// fields. The input row is not modified.
func stripExcluded(row Row, cfg ModelConfig) Row {
	if row == nil {
		return nil
	}
	out := make(Row, len(row))
	for k, v := range row {
		out[k] = v
	}
	for _, field := range cfg.Exclude {
		delete(out, field)
	}
	return out
}
