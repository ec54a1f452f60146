package admin

import "testing"

func TestCanManage_StrictHierarchy(t *testing.T) {
	cases := []struct {
		actor  Role
		target Role
		want   bool
	}{
		{RoleSuperAdmin, RoleAdmin, true},
		{RoleSuperAdmin, RoleExecutiveAdmin, true},
		{RoleSuperAdmin, RoleRideManager, true},
		{RoleAdmin, RoleExecutiveAdmin, true},
		{RoleAdmin, RoleRideManager, true},
		{RoleExecutiveAdmin, RoleRideManager, true},

		// Peers and self never manageable
		{RoleSuperAdmin, RoleSuperAdmin, false},
		{RoleAdmin, RoleAdmin, false},
		{RoleExecutiveAdmin, RoleExecutiveAdmin, false},
		{RoleRideManager, RoleRideManager, false},

		// Upward never allowed
		{RoleRideManager, RoleExecutiveAdmin, false},
		{RoleRideManager, RoleAdmin, false},
		{RoleRideManager, RoleSuperAdmin, false},
		{RoleExecutiveAdmin, RoleAdmin, false},
		{RoleAdmin, RoleSuperAdmin, false},
	}

	for _, c := range cases {
		if got := CanManage(c.actor, c.target); got != c.want {
			t.Errorf("CanManage(%s, %s) = %v, want %v", c.actor, c.target, got, c.want)
		}
	}
}

func TestCanManage_UnknownRole(t *testing.T) {
	if CanManage(Role("intern"), RoleRideManager) {
		t.Fatal("unknown actor role must not manage anything")
	}
	if CanManage(RoleSuperAdmin, Role("intern")) {
		t.Fatal("unknown target role must not be manageable")
	}
}

func TestValidRole(t *testing.T) {
	for _, r := range []Role{RoleSuperAdmin, RoleAdmin, RoleExecutiveAdmin, RoleRideManager} {
		if !ValidRole(r) {
			t.Errorf("expected %s to be valid", r)
		}
	}
	if ValidRole(Role("moderator")) {
		t.Fatal("expected moderator to be invalid")
	}
}

func TestDefaultPermissions(t *testing.T) {
	p := DefaultPermissions(RoleRideManager)
	if !p.Allows(AreaRides) || !p.Allows(AreaTickets) || !p.Allows(AreaDashboard) {
		t.Fatal("ride_manager must get rides, tickets and dashboard by default")
	}
	if p.Allows(AreaAdmins) || p.Allows(AreaWallet) {
		t.Fatal("ride_manager must not get admins or wallet by default")
	}

	p = DefaultPermissions(RoleSuperAdmin)
	for _, area := range []Area{AreaDashboard, AreaDrivers, AreaVehicles, AreaRides, AreaPackages, AreaWallet, AreaTickets, AreaAdmins} {
		if !p.Allows(area) {
			t.Errorf("super_admin must get %s by default", area)
		}
	}
}
