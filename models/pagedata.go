package models

type PageData struct {
	Title      string
	Flashes    []Flash
	IsLoggedIn bool
	Form       map[string]string
	Data       any
}
