package auth

import "time"

// DefaultPictureURL is assigned to new accounts and restored when an update
// clears the picture.
const DefaultPictureURL = "https://fch.lisboa.ucp.pt/sites/default/files/assets/images/avatar-fch_8.png"

// Account is a registered user who owns devices.
type Account struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Surname      string    `json:"surname"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	PictureURL   string    `json:"picture_url"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Profile is the non-sensitive view of an account.
type Profile struct {
	Name       string `json:"name"`
	Surname    string `json:"surname"`
	Email      string `json:"email"`
	PictureURL string `json:"picture_url"`
}

// Profile returns the public fields of a.
func (a *Account) Profile() Profile {
	return Profile{
		Name:       a.Name,
		Surname:    a.Surname,
		Email:      a.Email,
		PictureURL: a.PictureURL,
	}
}

// AccountUpdate lists the fields to replace. A nil field is left unchanged.
// An empty PictureURL resets the picture to DefaultPictureURL.
type AccountUpdate struct {
	Name       *string `json:"name,omitempty"`
	Surname    *string `json:"surname,omitempty"`
	Email      *string `json:"email,omitempty"`
	Password   *string `json:"password,omitempty"`
	PictureURL *string `json:"picture_url,omitempty"`
}
