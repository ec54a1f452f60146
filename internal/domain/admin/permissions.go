package admin

// Area represents a functional area of the admin panel guarded by a
// per-admin permission flag.
type Area string

const (
	AreaDashboard Area = "dashboard"
	AreaDrivers   Area = "drivers"
	AreaVehicles  Area = "vehicles"
	AreaRides     Area = "rides"
	AreaPackages  Area = "packages"
	AreaWallet    Area = "wallet"
	AreaTickets   Area = "tickets"
	AreaAdmins    Area = "admins"
)

// roleRank returns the position of a role in the fixed management chain.
// Higher rank manages lower rank; unknown roles rank 0.
func roleRank(r Role) int {
	switch r {
	case RoleSuperAdmin:
		return 4
	case RoleAdmin:
		return 3
	case RoleExecutiveAdmin:
		return 2
	case RoleRideManager:
		return 1
	}
	return 0
}

// ValidRole reports whether r is a known admin role
func ValidRole(r Role) bool {
	return roleRank(r) > 0
}

// CanManage reports whether an actor role may create or modify admins of the
// target role. The hierarchy is strict: a role manages only roles below it,
// never its peers or superiors.
func CanManage(actor, target Role) bool {
	actorRank := roleRank(actor)
	targetRank := roleRank(target)
	if actorRank == 0 || targetRank == 0 {
		return false
	}
	return actorRank > targetRank
}

// DefaultPermissions returns the initial permission flags for a newly
// created admin of the given role. Managers may adjust them afterwards.
func DefaultPermissions(role Role) Permissions {
	switch role {
	case RoleSuperAdmin, RoleAdmin:
		return Permissions{
			Dashboard: true, Drivers: true, Vehicles: true, Rides: true,
			Packages: true, Wallet: true, Tickets: true, Admins: true,
		}
	case RoleExecutiveAdmin:
		return Permissions{
			Dashboard: true, Drivers: true, Vehicles: true, Rides: true,
			Packages: true, Tickets: true,
		}
	case RoleRideManager:
		return Permissions{
			Dashboard: true, Rides: true, Tickets: true,
		}
	}
	return Permissions{}
}
