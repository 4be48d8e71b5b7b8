// internal/draft/draft.go

// Package draft holds the product authoring form state across its steps and
// turns it into a ProductInput on submit.
package draft

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/driprats/storefront-admin/internal/models"
	"github.com/driprats/storefront-admin/internal/utils"
)

type Mode string

const (
	ModeCreate Mode = "create"
	ModeEdit   Mode = "edit"
)

type Step string

const (
	StepBasic   Step = "basic"
	StepImages  Step = "images"
	StepDetails Step = "details"
	StepSEO     Step = "seo"
	StepReview  Step = "review"
)

// Steps in form order.
var Steps = []Step{StepBasic, StepImages, StepDetails, StepSEO, StepReview}

var (
	ErrUnknownStep   = errors.New("unknown step")
	ErrUnknownDetail = errors.New("unknown detail")
	ErrImageIndex    = errors.New("image index out of range")
)

// Detail is one editable key/value row. Keys may repeat or be blank while
// editing; Fold resolves them.
type Detail struct {
	ID    uuid.UUID `json:"id"`
	Key   string    `json:"key"`
	Value string    `json:"value"`
}

// FieldErrors maps a lower-cased field name to its message.
type FieldErrors map[string]string

func (fe FieldErrors) Error() string {
	fields := make([]string, 0, len(fe))
	for f := range fe {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	parts := make([]string, len(fields))
	for i, f := range fields {
		parts[i] = f + ": " + fe[f]
	}
	return "invalid product draft: " + strings.Join(parts, "; ")
}

// ProductWriter is satisfied by services.ProductService.
type ProductWriter interface {
	Create(ctx context.Context, in *models.ProductInput) (*models.Product, error)
	Update(ctx context.Context, id string, in *models.ProductInput) (*models.Product, error)
}

type Draft struct {
	mode      Mode
	productID string
	step      Step

	name            string
	price           float64
	discountedPrice *float64
	inStock         bool
	category        string
	description     string
	images          []string
	details         []Detail
	tags            []string
	metaTitle       string
	metaDescription string
}

// New starts an empty create-mode draft on the first step.
func New() *Draft {
	return &Draft{
		mode:    ModeCreate,
		step:    StepBasic,
		inStock: true,
	}
}

// FromProduct seeds an edit-mode draft. Details come back sorted by key since
// the stored mapping has no order.
func FromProduct(p models.Product, tags []string) *Draft {
	d := &Draft{
		mode:            ModeEdit,
		productID:       p.ProductID,
		step:            StepBasic,
		name:            p.Name,
		price:           p.Price,
		inStock:         p.InStock,
		category:        p.Category,
		description:     p.Description,
		images:          append([]string(nil), p.ImageUrls...),
		tags:            models.NormalizeTags(tags),
		metaTitle:       p.MetaTitle,
		metaDescription: p.MetaDescription,
	}
	discounted := p.DiscountedPrice
	d.discountedPrice = &discounted

	keys := make([]string, 0, len(p.DetailedDescription))
	for k := range p.DetailedDescription {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		d.details = append(d.details, Detail{ID: uuid.New(), Key: k, Value: p.DetailedDescription[k]})
	}
	return d
}

func (d *Draft) Mode() Mode        { return d.mode }
func (d *Draft) ProductID() string { return d.productID }
func (d *Draft) Step() Step        { return d.step }

func (d *Draft) SetName(name string)               { d.name = name }
func (d *Draft) SetPrice(price float64)            { d.price = price }
func (d *Draft) SetInStock(inStock bool)           { d.inStock = inStock }
func (d *Draft) SetCategory(category string)       { d.category = category }
func (d *Draft) SetDescription(description string) { d.description = description }
func (d *Draft) SetMetaTitle(title string)         { d.metaTitle = title }
func (d *Draft) SetMetaDescription(desc string)    { d.metaDescription = desc }

// SetDiscountedPrice sets the sale price; nil means "same as price".
func (d *Draft) SetDiscountedPrice(price *float64) {
	if price == nil {
		d.discountedPrice = nil
		return
	}
	v := *price
	d.discountedPrice = &v
}

// Images returns the image slots, including empty ones.
func (d *Draft) Images() []string {
	return append([]string(nil), d.images...)
}

func (d *Draft) AddImage(url string) {
	d.images = append(d.images, url)
}

func (d *Draft) SetImage(i int, url string) error {
	if i < 0 || i >= len(d.images) {
		return ErrImageIndex
	}
	d.images[i] = url
	return nil
}

func (d *Draft) RemoveImage(i int) error {
	if i < 0 || i >= len(d.images) {
		return ErrImageIndex
	}
	d.images = append(d.images[:i], d.images[i+1:]...)
	return nil
}

func (d *Draft) Details() []Detail {
	return append([]Detail(nil), d.details...)
}

// AddDetail appends a blank row and returns its id.
func (d *Draft) AddDetail() uuid.UUID {
	id := uuid.New()
	d.details = append(d.details, Detail{ID: id})
	return id
}

func (d *Draft) UpdateDetail(id uuid.UUID, key, value string) error {
	for i := range d.details {
		if d.details[i].ID == id {
			d.details[i].Key = key
			d.details[i].Value = value
			return nil
		}
	}
	return ErrUnknownDetail
}

func (d *Draft) RemoveDetail(id uuid.UUID) bool {
	for i := range d.details {
		if d.details[i].ID == id {
			d.details = append(d.details[:i], d.details[i+1:]...)
			return true
		}
	}
	return false
}

func (d *Draft) Tags() []string {
	return append([]string(nil), d.tags...)
}

// SetTagsFromString replaces the tags with the comma-separated entries of raw.
func (d *Draft) SetTagsFromString(raw string) {
	d.tags = models.NormalizeTags(strings.Split(raw, ","))
}

func (d *Draft) TagsString() string {
	return strings.Join(d.tags, ", ")
}

func (d *Draft) RemoveTag(tag string) {
	kept := d.tags[:0]
	for _, t := range d.tags {
		if t != tag {
			kept = append(kept, t)
		}
	}
	d.tags = kept
}

func (d *Draft) GoTo(step Step) error {
	for _, s := range Steps {
		if s == step {
			d.step = step
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ErrUnknownStep, step)
}

// Next advances one step and reports whether it moved.
func (d *Draft) Next() bool {
	i := stepIndex(d.step)
	if i >= len(Steps)-1 {
		return false
	}
	d.step = Steps[i+1]
	return true
}

// Prev goes back one step and reports whether it moved.
func (d *Draft) Prev() bool {
	i := stepIndex(d.step)
	if i <= 0 {
		return false
	}
	d.step = Steps[i-1]
	return true
}

func stepIndex(step Step) int {
	for i, s := range Steps {
		if s == step {
			return i
		}
	}
	return 0
}

// Fold turns the detail rows into the stored mapping. Rows with a blank key
// are skipped; a repeated key keeps the last value.
func (d *Draft) Fold() map[string]string {
	out := make(map[string]string)
	for _, row := range d.details {
		key := strings.TrimSpace(row.Key)
		if key == "" {
			continue
		}
		out[key] = strings.TrimSpace(row.Value)
	}
	return out
}

// Input builds the write payload. Empty image slots are dropped.
func (d *Draft) Input() *models.ProductInput {
	images := make([]string, 0, len(d.images))
	for _, url := range d.images {
		if url = strings.TrimSpace(url); url != "" {
			images = append(images, url)
		}
	}

	inStock := d.inStock
	in := &models.ProductInput{
		Name:            strings.TrimSpace(d.name),
		Price:           d.price,
		InStock:         &inStock,
		Category:        strings.TrimSpace(d.category),
		Description:     d.description,
		ImageUrls:       images,
		Tags:            d.Tags(),
		MetaTitle:       d.metaTitle,
		MetaDescription: d.metaDescription,
	}
	if d.discountedPrice != nil {
		v := *d.discountedPrice
		in.DiscountedPrice = &v
	}
	if details := d.Fold(); len(details) > 0 {
		in.DetailedDescription = details
	}
	return in
}

// Validate checks the payload Input would produce.
func (d *Draft) Validate() error {
	err := utils.ValidateStruct(d.Input())
	if err == nil {
		return nil
	}

	fe := FieldErrors{}
	for _, ve := range utils.GetValidationErrors(err) {
		if _, seen := fe[ve.Field]; !seen {
			fe[ve.Field] = ve.Message
		}
	}
	if len(fe) == 0 {
		return err
	}
	return fe
}

// Valid gates submission: a name, a positive price and at least one image.
// It runs the full ProductInput rules, so the server's length limits fail here too.
func (d *Draft) Valid() bool {
	return d.Validate() == nil
}

// Review is what the last step shows before submit.
type Review struct {
	Mode            Mode              `json:"mode"`
	ProductID       string            `json:"productId"`
	Name            string            `json:"name"`
	Category        string            `json:"category"`
	Price           decimal.Decimal   `json:"price"`
	DiscountedPrice decimal.Decimal   `json:"discountedPrice"`
	Savings         decimal.Decimal   `json:"savings"`
	InStock         bool              `json:"inStock"`
	Images          []string          `json:"images"`
	Details         map[string]string `json:"details"`
	Tags            []string          `json:"tags"`
	MetaTitle       string            `json:"metaTitle"`
	MetaDescription string            `json:"metaDescription"`
	Valid           bool              `json:"valid"`
}

func (d *Draft) Review() Review {
	in := d.Input()

	id := d.productID
	if d.mode == ModeCreate {
		id = utils.Slugify(in.Name)
	}

	price := decimal.NewFromFloat(in.Price)
	discounted := price
	if in.DiscountedPrice != nil {
		discounted = decimal.NewFromFloat(*in.DiscountedPrice)
	}
	savings := price.Sub(discounted)
	if savings.IsNegative() {
		savings = decimal.Zero
	}

	return Review{
		Mode:            d.mode,
		ProductID:       id,
		Name:            in.Name,
		Category:        in.Category,
		Price:           price,
		DiscountedPrice: discounted,
		Savings:         savings,
		InStock:         *in.InStock,
		Images:          in.ImageUrls,
		Details:         d.Fold(),
		Tags:            in.NormalizedTags(),
		MetaTitle:       in.MetaTitle,
		MetaDescription: in.MetaDescription,
		Valid:           d.Valid(),
	}
}

// Submit writes the draft through w, creating or updating by mode. The draft
// is never modified, so a failed submit can be retried as is.
func (d *Draft) Submit(ctx context.Context, w ProductWriter) (*models.Product, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}

	in := d.Input()
	var (
		product *models.Product
		err     error
	)
	if d.mode == ModeEdit {
		product, err = w.Update(ctx, d.productID, in)
	} else {
		product, err = w.Create(ctx, in)
	}
	if err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"mode":       d.mode,
			"product_id": d.productID,
		}).Error("Failed to save product draft")
		return nil, err
	}
	return product, nil
}
