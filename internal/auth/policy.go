package auth

import (
	posv1 "github.com/fekuna/omnipos-billing-service/api/posv1"
	"github.com/fekuna/omnipos-billing-service/internal/model"
)

// Policy maps full gRPC method names to the roles allowed to call them.
// Methods without an entry are open to every signed in operator.
type Policy struct {
	public map[string]bool
	roles  map[string][]model.Role
}

func NewPolicy() *Policy {
	return &Policy{public: map[string]bool{}, roles: map[string][]model.Role{}}
}

func (p *Policy) Public(methods ...string) *Policy {
	for _, m := range methods {
		p.public[m] = true
	}
	return p
}

func (p *Policy) Require(roles []model.Role, methods ...string) *Policy {
	for _, m := range methods {
		p.roles[m] = roles
	}
	return p
}

func (p *Policy) IsPublic(method string) bool {
	return p.public[method]
}

func (p *Policy) Allows(method string, s *model.Session) bool {
	roles, ok := p.roles[method]
	if !ok {
		return s != nil
	}
	return s.HasRole(roles...)
}

func DefaultPolicy() *Policy {
	adminOnly := []model.Role{model.RoleAdmin}
	return NewPolicy().
		Public(posv1.FullMethod(posv1.AuthServiceName, "SignIn")).
		Require(adminOnly,
			posv1.FullMethod(posv1.ProductServiceName, "CreateProduct"),
			posv1.FullMethod(posv1.ProductServiceName, "UpdateProduct"),
			posv1.FullMethod(posv1.ProductServiceName, "DeleteProduct"),
			posv1.FullMethod(posv1.InventoryServiceName, "Restock"),
			posv1.FullMethod(posv1.InventoryServiceName, "ListLowStock"),
			posv1.FullMethod(posv1.InventoryServiceName, "ListMovements"),
		)
}
