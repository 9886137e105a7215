package entity

type User struct {
	ID           int64  `db:"id_utente"`
	FirstName    string `db:"nome"`
	LastName     string `db:"cognome"`
	Email        string `db:"email"`
	PasswordHash string `db:"password"`
}
