package domain

// Document is the aggregate root persisted as a single unit: every user and
// every post lives here. Treat a *Document obtained from a store snapshot as
// read-only; mutations happen on a Clone inside the store's writer section.
type Document struct {
	Users []User `json:"users"`
	Posts []Post `json:"posts"`
}

// NewDocument returns the empty document materialised on first run.
func NewDocument() *Document {
	return &Document{Users: []User{}, Posts: []Post{}}
}

// Normalize replaces nil collections with empty ones so the document always
// serialises as {"users": [], "posts": []}.
func (d *Document) Normalize() {
	if d.Users == nil {
		d.Users = []User{}
	}
	if d.Posts == nil {
		d.Posts = []Post{}
	}
}

// Clone returns a deep copy that shares no backing arrays with d.
func (d *Document) Clone() *Document {
	if d == nil {
		return NewDocument()
	}
	c := &Document{
		Users: make([]User, len(d.Users)),
		Posts: make([]Post, len(d.Posts)),
	}
	copy(c.Users, d.Users)
	copy(c.Posts, d.Posts)
	return c
}

// UserByUsername looks up a user by exact, case-sensitive username.
func (d *Document) UserByUsername(username string) (User, bool) {
	for _, u := range d.Users {
		if u.Username == username {
			return u, true
		}
	}
	return User{}, false
}

// UserByID looks up a user by id.
func (d *Document) UserByID(id string) (User, bool) {
	for _, u := range d.Users {
		if u.ID == id {
			return u, true
		}
	}
	return User{}, false
}

// HasAdmin reports whether at least one user holds the admin role.
func (d *Document) HasAdmin() bool {
	for _, u := range d.Users {
		if u.IsAdmin() {
			return true
		}
	}
	return false
}

// PostIndex returns the position of the post with the given id, or -1.
func (d *Document) PostIndex(id string) int {
	for i, p := range d.Posts {
		if p.ID == id {
			return i
		}
	}
	return -1
}
