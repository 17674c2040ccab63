package entity

// Character is a seller's public profile, keyed by the identity id in UserID
// rather than by document id.
type Character struct {
	ID         string `json:"id" firestore:"-"`
	UserID     string `json:"user_id" firestore:"userId"`
	Author     string `json:"author" firestore:"author"`
	Avatar     string `json:"avatar" firestore:"avatar"`
	Bio        string `json:"bio,omitempty" firestore:"bio,omitempty"`
	StoreAbout string `json:"store_about,omitempty" firestore:"storeAbout,omitempty"`
}
