package model

// AccessRole identifies one of the four static role passkeys. Patient
// passkeys are stored per identification number and are a separate path.
type AccessRole string

const (
	RoleAdmin      AccessRole = "admin"
	RoleStaff      AccessRole = "staff"
	RoleDrAbundo   AccessRole = "dr_abundo"
	RoleDrDecastro AccessRole = "dr_decastro"
)

func (r AccessRole) Valid() bool {
	switch r {
	case RoleAdmin, RoleStaff, RoleDrAbundo, RoleDrDecastro:
		return true
	}
	return false
}

type ValidatePasskeyRequest struct {
	Passkey string `json:"passkey" binding:"required"`
	Type    string `json:"type" binding:"required,oneof=admin staff dr_abundo dr_decastro"`
}

// SessionResponse carries the short-lived token issued on a successful
// role passkey validation. Callers present it as a Bearer credential
// instead of keeping the passkey around client-side.
type SessionResponse struct {
	Valid bool   `json:"valid"`
	Token string `json:"token,omitempty"`
}

