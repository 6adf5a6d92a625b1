package auth

import "github.com/apota/mydms-sub010/internal/db/models"

// Permission actions.
const (
	ActionRead  = "read"
	ActionWrite = "write"
)

// PermAdmin grants every permission.
const PermAdmin = "admin"

// DMS modules guarded by module.read / module.write permissions.
const (
	ModuleSettings  = "settings"
	ModuleUsers     = "users"
	ModuleCRM       = "crm"
	ModuleDemo      = "demo"
	ModuleInventory = "inventory"
	ModuleSales     = "sales"
	ModuleService   = "service"
	ModuleParts     = "parts"
	ModuleFinancial = "financial"
	ModuleReporting = "reporting"
)

// Modules lists every guarded module.
var Modules = []string{
	ModuleSettings,
	ModuleUsers,
	ModuleCRM,
	ModuleDemo,
	ModuleInventory,
	ModuleSales,
	ModuleService,
	ModuleParts,
	ModuleFinancial,
	ModuleReporting,
}

// Perm returns the permission name of action on module.
func Perm(module, action string) string {
	return module + "." + action
}

// AllPermissions returns every module permission plus admin.
func AllPermissions() []string {
	out := make([]string, 0, len(Modules)*2+1)
	for _, m := range Modules {
		out = append(out, Perm(m, ActionRead), Perm(m, ActionWrite))
	}

	return append(out, PermAdmin)
}

func readWrite(modules ...string) []string {
	out := make([]string, 0, len(modules)*2)
	for _, m := range modules {
		out = append(out, Perm(m, ActionRead), Perm(m, ActionWrite))
	}

	return out
}

func readOnly(modules ...string) []string {
	out := make([]string, 0, len(modules))
	for _, m := range modules {
		out = append(out, Perm(m, ActionRead))
	}

	return out
}

// DefaultRolePermissions are seeded for the built-in roles.
func DefaultRolePermissions() map[string][]string {
	return map[string][]string{
		models.RoleAdmin: AllPermissions(),
		models.RoleManager: append(
			readWrite(ModuleCRM, ModuleDemo, ModuleInventory, ModuleSales, ModuleService, ModuleParts,
				ModuleFinancial, ModuleReporting),
			readOnly(ModuleSettings, ModuleUsers)...,
		),
		models.RoleSales: append(
			readWrite(ModuleCRM, ModuleDemo, ModuleInventory, ModuleSales),
			readOnly(ModuleParts, ModuleFinancial, ModuleReporting, ModuleSettings)...,
		),
		models.RoleService: append(
			readWrite(ModuleService, ModuleParts),
			readOnly(ModuleCRM, ModuleInventory, ModuleReporting, ModuleSettings)...,
		),
		models.RoleViewer: readOnly(Modules...),
	}
}
