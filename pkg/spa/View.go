package spa

/*
View is the part of the page the app writes to. Message and modal targets
are addressed by element id. Implementations ignore ids that are not on
the page.
*/
type View interface {
	Render(html string)
	ShowMessage(targetID, message string)
	ClearMessage(targetID string)
	ShowModal(html string)
	HideModal()
	SetSortable(enabled bool)
	MoveItem(move Move)
}

/*
Location is the browser address. SetHash triggers a hash change (and so a
new Route call) only when the hash actually differs. Assign leaves the
app with a full page load.
*/
type Location interface {
	Hash() string
	SetHash(hash string)
	Assign(url string)
}
