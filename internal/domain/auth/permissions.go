package auth

import "context"

const (
	RoleAdmin    = "admin"
	RoleEmployee = "employee"
)

const (
	PermAuditsRead      = "audits.read"
	PermAuditsWrite     = "audits.write"
	PermAuditsManage    = "audits.manage"
	PermAuditsImport    = "audits.import"
	PermSellersRead     = "sellers.read"
	PermSellersWrite    = "sellers.write"
	PermParcelsRead     = "parcels.read"
	PermParcelsWrite    = "parcels.write"
	PermParcelsManage   = "parcels.manage"
	PermEmployeesRead   = "employees.read"
	PermEmployeesWrite  = "employees.write"
	PermIDCardsManage   = "idcards.manage"
	PermUsersRegister   = "users.register"
	PermReportsRead     = "reports.read"
	PermActivityRead    = "activity.read"
	PermMetricsRead     = "system.metrics"
	PermDashboardRead   = "dashboard.read"
	PermProfileReadSelf = "profile.self"
)

var DefaultPermissions = []string{
	PermAuditsRead,
	PermAuditsWrite,
	PermAuditsManage,
	PermAuditsImport,
	PermSellersRead,
	PermSellersWrite,
	PermParcelsRead,
	PermParcelsWrite,
	PermParcelsManage,
	PermEmployeesRead,
	PermEmployeesWrite,
	PermIDCardsManage,
	PermUsersRegister,
	PermReportsRead,
	PermActivityRead,
	PermMetricsRead,
	PermDashboardRead,
	PermProfileReadSelf,
}

var RolePermissions = map[string][]string{
	RoleEmployee: {
		PermAuditsRead,
		PermAuditsWrite,
		PermSellersRead,
		PermParcelsRead,
		PermParcelsWrite,
		PermReportsRead,
		PermDashboardRead,
		PermProfileReadSelf,
	},
	RoleAdmin: DefaultPermissions,
}

// ValidRole reports whether name is one of the fixed roles.
func ValidRole(name string) bool {
	_, ok := RolePermissions[name]
	return ok
}

// StaticPermissions resolves permissions from RolePermissions without a
// database round trip.
type StaticPermissions struct {
	index map[string]map[string]struct{}
}

func NewStaticPermissions() *StaticPermissions {
	index := make(map[string]map[string]struct{}, len(RolePermissions))
	for role, perms := range RolePermissions {
		set := make(map[string]struct{}, len(perms))
		for _, perm := range perms {
			set[perm] = struct{}{}
		}
		index[role] = set
	}
	return &StaticPermissions{index: index}
}

func (p *StaticPermissions) HasPermission(_ context.Context, role, permission string) (bool, error) {
	_, ok := p.index[role][permission]
	return ok, nil
}
