package authz

const (
	RoleMember = 10
	RoleViewer = 30
	RoleAdmin  = 50
)

func IsReadOnly(roleID int) bool {
	return roleID == RoleViewer
}
