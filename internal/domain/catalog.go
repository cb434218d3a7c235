package domain

import "time"

// Video is a standalone playable catalog entry.
type Video struct {
	ID        uint      `gorm:"primaryKey"`
	Title     string    `gorm:"type:varchar(200);not null"`
	URL       string    `gorm:"type:varchar(500);not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

// AnimeSeries groups episodes under a shared title.
type AnimeSeries struct {
	ID        uint           `gorm:"primaryKey"`
	Title     string         `gorm:"type:varchar(200);uniqueIndex:idx_series_title;not null"`
	ImageURL  string         `gorm:"type:varchar(500)"`
	Episodes  []AnimeEpisode `gorm:"foreignKey:SeriesID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time      `gorm:"autoCreateTime"`
}

// AnimeEpisode is a playable episode belonging to a series.
type AnimeEpisode struct {
	ID       uint   `gorm:"primaryKey"`
	Title    string `gorm:"type:varchar(200);not null"`
	URL      string `gorm:"type:varchar(500);not null"`
	SeriesID uint   `gorm:"index;not null"`
}

// PlayableItem is the resolved (title, url) snapshot a watch party is
// created from. Later catalog edits do not affect it.
type PlayableItem struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}
