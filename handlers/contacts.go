package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	ds "github.com/darko-mesaros/webone/datastores"
	"github.com/darko-mesaros/webone/validation"
)

const defaultPerPage = 10

// Contacts exposes the contact book: paginated listing with substring
// search, CRUD by id, and the inline uniqueness check backing the form UI.
type Contacts struct {
	Store        ds.ContactsStore
	Validator    *validation.Service
	ErrorHandler func(context.Context, error)
}

type ContactModel struct {
	ID        ds.ContactID `json:"id"         readOnly:"true"`
	CreatedAt time.Time    `json:"created_at" readOnly:"true"`

	FirstName   string `json:"first_name"   example:"Jane"`
	LastName    string `json:"last_name"    example:"Doe"`
	PhoneNumber string `json:"phone_number" example:"555-0100"`
	Email       string `json:"email"        example:"jane@example.com"`
}

// NewContactModel is the submission payload for create and edit. Names must
// be present; phone and email may be omitted or empty.
type NewContactModel struct {
	FirstName   string `json:"first_name"             minLength:"1" example:"Jane"`
	LastName    string `json:"last_name"              minLength:"1" example:"Doe"`
	PhoneNumber string `json:"phone_number,omitempty" example:"555-0100"`
	Email       string `json:"email,omitempty"        example:"jane@example.com"`
}

func contactModel(c *ds.Contact) ContactModel {
	return ContactModel{
		ID:          c.ID,
		CreatedAt:   c.CreatedAt,
		FirstName:   c.FirstName,
		LastName:    c.LastName,
		PhoneNumber: c.PhoneNumber,
		Email:       c.Email,
	}
}

func (m *NewContactModel) newContact() *ds.NewContact {
	return &ds.NewContact{
		FirstName:   m.FirstName,
		LastName:    m.LastName,
		PhoneNumber: m.PhoneNumber,
		Email:       m.Email,
	}
}

func (h *Contacts) RegisterList(api huma.API) { // called by [huma.AutoRegister]
	huma.Get(api, "/",
		handlerWithErrorHandler(h.list, h.ErrorHandler),
		opErrors(http.StatusInternalServerError),
	)
}

type ContactsListOutput struct {
	Body struct {
		Q        string         `json:"q,omitempty"`
		Page     int            `json:"page"`
		PerPage  int            `json:"per_page"`
		Contacts []ContactModel `json:"contacts"`
	}
}

func (h *Contacts) list(ctx context.Context, input *struct {
	Q       string `query:"q"        doc:"substring to match against first or last name"`
	Page    int    `query:"page"     minimum:"1" default:"1"`
	PerPage int    `query:"per_page" minimum:"1" maximum:"100" default:"10"`
}) (*ContactsListOutput, error) {
	if input.PerPage == 0 {
		input.PerPage = defaultPerPage
	}

	var contacts []*ds.Contact
	var err error
	if input.Q != "" {
		contacts, err = h.Store.Search(ctx, input.Q, input.Page, input.PerPage)
	} else {
		contacts, err = h.Store.List(ctx, input.Page, input.PerPage)
	}
	if err != nil {
		return nil, err
	}

	out := &ContactsListOutput{}
	out.Body.Q = input.Q
	out.Body.Page = input.Page
	out.Body.PerPage = input.PerPage
	out.Body.Contacts = make([]ContactModel, 0, len(contacts))
	for _, contact := range contacts {
		out.Body.Contacts = append(out.Body.Contacts, contactModel(contact))
	}
	return out, nil
}

func (h *Contacts) RegisterCreate(api huma.API) { // called by [huma.AutoRegister]
	huma.Post(api, "/",
		handlerWithErrorHandler(h.create, h.ErrorHandler),
		opDefaultStatus(http.StatusCreated),
		opErrors(http.StatusConflict, http.StatusUnprocessableEntity, http.StatusInternalServerError),
	)
}

type ContactsCreateOutput struct {
	Body ContactModel
}

func (h *Contacts) create(ctx context.Context, input *struct {
	Body NewContactModel
}) (*ContactsCreateOutput, error) {
	// Friendly pre-check first; the store's unique indexes still have the
	// final word, so a lost race surfaces as a duplicate sentinel below.
	result, err := h.Validator.Validate(ctx, input.Body.Email, input.Body.PhoneNumber)
	if err != nil {
		return nil, err
	}
	if !result.Allowed() {
		return nil, huma.Error409Conflict(result.Message())
	}

	contact, err := h.Store.Create(ctx, input.Body.newContact())
	if err != nil {
		return nil, duplicateStatusError(err)
	}
	return &ContactsCreateOutput{Body: contactModel(contact)}, nil
}

func (h *Contacts) RegisterGet(api huma.API) { // called by [huma.AutoRegister]
	huma.Get(api, "/{id}",
		handlerWithErrorHandler(h.get, h.ErrorHandler),
		opErrors(http.StatusNotFound, http.StatusInternalServerError),
	)
}

type ContactsGetOutput struct {
	Body ContactModel
}

func (h *Contacts) get(ctx context.Context, input *struct {
	ID ds.ContactID `path:"id" doc:"ID of the contact to get"`
}) (*ContactsGetOutput, error) {
	contact, err := h.Store.Get(ctx, input.ID)
	switch {
	case err == nil:
		return &ContactsGetOutput{Body: contactModel(contact)}, nil

	case errors.Is(err, ds.ErrObjectNotFound):
		return nil, huma.Error404NotFound("id not found", err)

	default:
		return nil, err
	}
}

func (h *Contacts) RegisterUpdate(api huma.API) { // called by [huma.AutoRegister]
	huma.Put(api, "/{id}",
		handlerWithErrorHandler(h.update, h.ErrorHandler),
		opErrors(http.StatusNotFound, http.StatusConflict,
			http.StatusUnprocessableEntity, http.StatusInternalServerError),
	)
}

func (h *Contacts) update(ctx context.Context, input *struct {
	ID   ds.ContactID `path:"id" doc:"ID of the contact to update"`
	Body NewContactModel
}) (*struct{}, error) {
	contact, err := h.Store.Get(ctx, input.ID)
	switch {
	case errors.Is(err, ds.ErrObjectNotFound):
		return nil, huma.Error404NotFound("id not found", err)
	case err != nil:
		return nil, err
	}

	input.Body.newContact().ApplyTo(contact)
	if err := h.Store.Update(ctx, contact); err != nil {
		return nil, duplicateStatusError(err)
	}
	return nil, nil
}

func (h *Contacts) RegisterDel(api huma.API) { // called by [huma.AutoRegister]
	huma.Delete(api, "/{id}",
		handlerWithErrorHandler(h.del, h.ErrorHandler),
		opErrors(http.StatusInternalServerError),
	)
}

func (h *Contacts) del(ctx context.Context, input *struct {
	ID ds.ContactID `path:"id" doc:"ID of the contact to delete"`
}) (*struct{}, error) {
	return nil, h.Store.Delete(ctx, input.ID)
}

// RegisterCheckValidate is called by [huma.AutoRegister], which walks methods
// in name order. Its name must sort before RegisterGet so that order-sensitive
// routers match GET /validate before the GET /{id} pattern.
func (h *Contacts) RegisterCheckValidate(api huma.API) {
	huma.Get(api, "/validate",
		handlerWithErrorHandler(h.validate, h.ErrorHandler),
		opErrors(http.StatusInternalServerError),
	)
}

type ValidationModel struct {
	EmailExists bool            `json:"email_exists"`
	PhoneExists bool            `json:"phone_exists"`
	Allowed     bool            `json:"allowed"`
	Kind        validation.Kind `json:"kind" enum:"none,email-conflict,phone-conflict,both-conflict"`
	Message     string          `json:"message,omitempty"`
}

type ContactsValidateOutput struct {
	Body ValidationModel
}

// validate backs the live field-level check while a form is being filled in.
// It is the same decision table the create path runs on submission.
func (h *Contacts) validate(ctx context.Context, input *struct {
	Email string `query:"email"        doc:"candidate email to check"`
	Phone string `query:"phone_number" doc:"candidate phone number to check"`
}) (*ContactsValidateOutput, error) {
	result, err := h.Validator.Validate(ctx, input.Email, input.Phone)
	if err != nil {
		return nil, err
	}
	return &ContactsValidateOutput{Body: ValidationModel{
		EmailExists: result.EmailExists,
		PhoneExists: result.PhoneExists,
		Allowed:     result.Allowed(),
		Kind:        result.Kind(),
		Message:     result.Message(),
	}}, nil
}

// duplicateStatusError converts the store's duplicate sentinels into 409
// responses carrying the same wording the validation pre-check uses.
func duplicateStatusError(err error) error {
	switch {
	case errors.Is(err, ds.ErrDuplicateEmail):
		return huma.Error409Conflict(validation.Result{EmailExists: true}.Message(), err)
	case errors.Is(err, ds.ErrDuplicatePhone):
		return huma.Error409Conflict(validation.Result{PhoneExists: true}.Message(), err)
	default:
		return err
	}
}
