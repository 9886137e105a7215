package entity

type Genre string

const (
	GenreAction      Genre = "Azione"
	GenreAdventure   Genre = "Avventura"
	GenreComedy      Genre = "Commedia"
	GenreDrama       Genre = "Drammatico"
	GenreHorror      Genre = "Horror"
	GenreThriller    Genre = "Thriller"
	GenreSciFi       Genre = "Fantascienza"
	GenreFantasy     Genre = "Fantasy"
	GenreAnimation   Genre = "Animazione"
	GenreDocumentary Genre = "Documentario"
	GenreRomance     Genre = "Romantico"
)

type Film struct {
	ID          int64    `db:"id_film"`
	Title       string   `db:"titolo"`
	Director    string   `db:"regista"`
	Runtime     *int32   `db:"durata"`
	PosterURL   string   `db:"url_copertina"`
	Description string   `db:"descrizione"`
	Genres      []string `db:"generi"`
}
