package services

import "github.com/desertthunder/ytlikes/internal/models"

// Database property names. These must match the columns of the target database exactly.
const (
	PropTitle           = "Title"
	PropArtist          = "Artist"
	PropAlbum           = "Album"
	PropCover           = "Cover"
	PropDuration        = "Duration"
	PropDurationSeconds = "duration_seconds"
	PropVideoID         = "video_id"
	PropVideo           = "Video"

	coverFileName = "Cover Art"
)

type notionLink struct {
	URL string `json:"url"`
}

type notionText struct {
	Content string      `json:"content"`
	Link    *notionLink `json:"link"`
}

// notionRichText is a rich text item. PlainText is only populated on responses.
type notionRichText struct {
	Type      string      `json:"type"`
	Text      *notionText `json:"text,omitempty"`
	PlainText string      `json:"plain_text,omitempty"`
}

type notionExternal struct {
	URL string `json:"url"`
}

type notionFile struct {
	Name     string          `json:"name,omitempty"`
	Type     string          `json:"type"`
	External *notionExternal `json:"external,omitempty"`
	File     *notionExternal `json:"file,omitempty"`
}

type notionParent struct {
	DatabaseID string `json:"database_id"`
}

// notionProperty is a page property value; only the field matching Type is set.
type notionProperty struct {
	Type     string           `json:"type,omitempty"`
	Title    []notionRichText `json:"title,omitempty"`
	RichText []notionRichText `json:"rich_text,omitempty"`
	Number   *float64         `json:"number,omitempty"`
	URL      *string          `json:"url,omitempty"`
	Files    *[]notionFile    `json:"files,omitempty"`
}

// PagePayload is the body of a create-page request.
type PagePayload struct {
	Parent     notionParent              `json:"parent"`
	Properties map[string]notionProperty `json:"properties"`
	Icon       *notionFile               `json:"icon,omitempty"`
	Cover      *notionFile               `json:"cover,omitempty"`
}

func textItem(content string) notionRichText {
	return notionRichText{Type: "text", Text: &notionText{Content: content}}
}

func richText(content string) notionProperty {
	return notionProperty{RichText: []notionRichText{textItem(content)}}
}

func external(url string) *notionFile {
	return &notionFile{Type: "external", External: &notionExternal{URL: url}}
}

// BuildPagePayload maps a track onto a new row of the database.
//
// A track without thumbnails gets no icon or cover and an empty Cover files list.
func BuildPagePayload(databaseID string, track models.Track) PagePayload {
	seconds := float64(track.DurationSeconds)
	watchURL := track.WatchURL()

	files := []notionFile{}
	payload := PagePayload{
		Parent: notionParent{DatabaseID: databaseID},
		Properties: map[string]notionProperty{
			PropTitle:           {Title: []notionRichText{textItem(track.Title)}},
			PropArtist:          richText(track.ArtistNames()),
			PropAlbum:           richText(track.AlbumName()),
			PropDuration:        richText(track.Duration),
			PropDurationSeconds: {Number: &seconds},
			PropVideoID:         richText(track.VideoID),
			PropVideo:           {URL: &watchURL},
		},
	}

	if len(track.Thumbnails) > 0 {
		cover := external(track.CoverURL())
		payload.Icon = external(track.IconURL())
		payload.Cover = cover

		named := *cover
		named.Name = coverFileName
		files = append(files, named)
	}
	payload.Properties[PropCover] = notionProperty{Files: &files}

	return payload
}
