package booking

import (
	"context"
	"log"

	"bhraman/apperr"
	"bhraman/models"
)

const UnknownPackage = "Unknown Package"

// View is a booking as returned by read paths, with its package and user
// references resolved where possible.
type View struct {
	models.Booking
	Package       models.Ref[models.Package] `json:"packageId"`
	User          models.Ref[models.User]    `json:"userId"`
	PackageName   string                     `json:"packageName"`
	CustomerName  string                     `json:"customerName"`
	CustomerEmail string                     `json:"customerEmail"`
	CustomerPhone string                     `json:"customerPhone"`
}

type PackageLookup interface {
	FindByID(ctx context.Context, id string) (*models.Package, error)
}

type UserLookup interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
}

// resolver memoizes lookups within one read so a page of bookings costs
// one query per distinct package and user.
type resolver struct {
	packages PackageLookup
	users    UserLookup
	pkgs     map[string]models.Ref[models.Package]
	usrs     map[string]models.Ref[models.User]
}

func newResolver(packages PackageLookup, users UserLookup) *resolver {
	return &resolver{
		packages: packages,
		users:    users,
		pkgs:     map[string]models.Ref[models.Package]{},
		usrs:     map[string]models.Ref[models.User]{},
	}
}

func resolveRef[T any](ctx context.Context, kind, id string, find func(context.Context, string) (*T, error)) models.Ref[T] {
	if id == "" {
		return models.MissingRef[T](id)
	}
	v, err := find(ctx, id)
	switch {
	case err == nil:
		return models.ResolvedRef(id, v)
	case apperr.IsNotFound(err):
		return models.MissingRef[T](id)
	default:
		log.Printf("[booking] %s lookup failed id=%s err=%v", kind, id, err)
		return models.UnresolvedRef[T](id)
	}
}

func (r *resolver) pkg(ctx context.Context, id string) models.Ref[models.Package] {
	if ref, ok := r.pkgs[id]; ok {
		return ref
	}
	ref := resolveRef(ctx, "package", id, r.packages.FindByID)
	r.pkgs[id] = ref
	return ref
}

func (r *resolver) user(ctx context.Context, id string) models.Ref[models.User] {
	if ref, ok := r.usrs[id]; ok {
		return ref
	}
	ref := resolveRef(ctx, "user", id, r.users.FindByID)
	r.usrs[id] = ref
	return ref
}

// view never fails: references that do not resolve fall back to the
// placeholder package name and the booking's own contact details.
func (r *resolver) view(ctx context.Context, b *models.Booking) View {
	v := View{
		Booking:       *b,
		Package:       r.pkg(ctx, b.PackageID),
		User:          r.user(ctx, b.UserID),
		PackageName:   UnknownPackage,
		CustomerName:  b.ContactInfo.Name,
		CustomerEmail: b.ContactInfo.Email,
		CustomerPhone: b.ContactInfo.Phone,
	}
	if p, ok := v.Package.Get(); ok {
		v.PackageName = p.Title
	}
	if u, ok := v.User.Get(); ok {
		if u.Name != "" {
			v.CustomerName = u.Name
		}
		if u.Email != "" {
			v.CustomerEmail = u.Email
		}
		if u.Phone != "" {
			v.CustomerPhone = u.Phone
		}
	}
	return v
}
