package model

// Account statuses the client reads and writes.
const (
	AccountActive                = "active"
	AccountDeactive              = "deactive"
	AccountRequestedToReactivate = "requested to reactivate"
)

// UserProfile is the authenticated identity. The local cache holds at most
// one logged-in profile at a time.
type UserProfile struct {
	Email         string `gorm:"primaryKey;size:256" json:"email"`
	Password      string `gorm:"size:256" json:"password"`
	Role          string `gorm:"size:64" json:"role"`
	FullName      string `gorm:"size:256" json:"fullName"`
	NIC           string `gorm:"size:32" json:"nic"`
	Phone         string `gorm:"size:32" json:"phone"`
	AddressNo     string `gorm:"size:64" json:"addressNo"`
	AddressStreet string `gorm:"size:256" json:"addressStreet"`
	AddressCity   string `gorm:"size:128" json:"addressCity"`
	Status        string `gorm:"size:64" json:"status"`
}
