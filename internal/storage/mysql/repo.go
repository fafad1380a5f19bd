package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"hotel_browser/internal/domain"
)

func valStr(s string) any {
	if s == "" {
		return nil
	}
	return s
}
func valF64(p *float64) any {
	if p == nil {
		return nil
	}
	return *p
}

type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

var (
	_ domain.HotelRepository       = (*Repo)(nil)
	_ domain.FavoritesRepository   = (*Repo)(nil)
	_ domain.LinkHistoryRepository = (*Repo)(nil)
)

func (r *Repo) UpsertHotels(ctx context.Context, hs []domain.Hotel) error {
	if len(hs) == 0 {
		return nil
	}
	values := make([]string, 0, len(hs))
	args := make([]any, 0, len(hs)*7)
	for _, h := range hs {
		values = append(values, "(?,?,?,?,?,?,?)")
		args = append(args, h.ID, h.Name, valStr(h.Address), h.Lat, h.Lng, valF64(h.Rating), valStr(h.Link))
	}
	_, err := r.db.ExecContext(ctx, upsertHotelsPrefix+strings.Join(values, ",")+upsertHotelsOnDup, args...)
	return err
}

func (r *Repo) UpsertReviews(ctx context.Context, rs []domain.Review) error {
	if len(rs) == 0 {
		return nil
	}
	values := make([]string, 0, len(rs))
	args := make([]any, 0, len(rs)*7)
	for _, rv := range rs {
		values = append(values, "(?,?,?,?,?,?,?)")
		args = append(args,
			rv.ReviewID,
			rv.HotelID,
			valStr(rv.Username),
			rv.Rating,
			valStr(rv.Title),
			valStr(rv.Text),
			valStr(rv.DatePosted), // YYYY-MM-DD or NULL
		)
	}
	_, err := r.db.ExecContext(ctx, insertReviewsPrefix+strings.Join(values, ",")+insertReviewsOnDup, args...)
	return err
}

func (r *Repo) RefreshRatings(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, refreshRatingsSQL)
	return err
}

type scanner interface{ Scan(dest ...any) error }

func scanHotel(s scanner) (domain.Hotel, error) {
	var h domain.Hotel
	var addr, link sql.NullString
	var lat, lng, rating sql.NullFloat64
	if err := s.Scan(&h.ID, &h.Name, &addr, &lat, &lng, &rating, &link); err != nil {
		return domain.Hotel{}, err
	}
	h.Address = addr.String
	h.Link = link.String
	h.Lat = lat.Float64
	h.Lng = lng.Float64
	if rating.Valid {
		f := rating.Float64
		h.Rating = &f
	}
	return h, nil
}

func (r *Repo) GetHotel(ctx context.Context, id int64) (domain.Hotel, error) {
	h, err := scanHotel(r.db.QueryRowContext(ctx, getHotelSQL, id))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Hotel{}, domain.ErrNotFound
	}
	return h, err
}

// SearchHotels matches fragment anywhere in the name; a blank fragment lists every hotel.
func (r *Repo) SearchHotels(ctx context.Context, fragment string) ([]domain.Hotel, error) {
	var (
		rows *sql.Rows
		err  error
	)
	if strings.TrimSpace(fragment) == "" {
		rows, err = r.db.QueryContext(ctx, allHotelsSQL)
	} else {
		rows, err = r.db.QueryContext(ctx, searchHotelsSQL, "%"+escapeLike(fragment)+"%")
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Hotel
	for rows.Next() {
		h, err := scanHotel(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func (r *Repo) ReviewsSlice(ctx context.Context, hotelID int64, limit, offset int) (domain.ReviewSlice, error) {
	out := domain.ReviewSlice{Reviews: []domain.Review{}}
	if err := r.db.QueryRowContext(ctx, countReviewsSQL, hotelID).Scan(&out.Len); err != nil {
		return domain.ReviewSlice{}, err
	}

	rows, err := r.db.QueryContext(ctx, reviewsSliceSQL, hotelID, limit, offset)
	if err != nil {
		return domain.ReviewSlice{}, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			username, title, body sql.NullString
			posted                sql.NullTime
		)
		if err := rows.Scan(&username, &title, &body, &posted); err != nil {
			return domain.ReviewSlice{}, err
		}
		rv := domain.Review{HotelID: hotelID, Username: username.String, Title: title.String, Text: body.String}
		if posted.Valid {
			rv.DatePosted = posted.Time.Format("2006-01-02")
		}
		out.Reviews = append(out.Reviews, rv)
	}
	if err := rows.Err(); err != nil {
		return domain.ReviewSlice{}, err
	}
	return out, nil
}

func (r *Repo) FavoriteIDs(ctx context.Context, username string) (map[int64]bool, error) {
	rows, err := r.db.QueryContext(ctx, favoriteIDsSQL, username)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := map[int64]bool{}
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out[id] = true
	}
	return out, rows.Err()
}

func (r *Repo) FavoriteNames(ctx context.Context, username string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, favoriteNamesSQL, username)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		out = append(out, name)
	}
	return out, rows.Err()
}

// ToggleFavorite flips (username, hotelID) and returns the new state.
func (r *Repo) ToggleFavorite(ctx context.Context, username string, hotelID int64) (bool, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, deleteFavoriteSQL, username, hotelID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	fav := n == 0
	if fav {
		if _, err := tx.ExecContext(ctx, insertFavoriteSQL, username, hotelID); err != nil {
			return false, fmt.Errorf("insert favorite %d for %s: %w", hotelID, username, err)
		}
	}
	return fav, tx.Commit()
}

func (r *Repo) ClearFavorites(ctx context.Context, username string) error {
	_, err := r.db.ExecContext(ctx, clearFavoritesSQL, username)
	return err
}

// KnownLink reports whether some hotel carries link.
func (r *Repo) KnownLink(ctx context.Context, link string) (bool, error) {
	var one int
	err := r.db.QueryRowContext(ctx, knownLinkSQL, link).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *Repo) RecordClick(ctx context.Context, username, link string) error {
	_, err := r.db.ExecContext(ctx, recordClickSQL, username, link)
	return err
}

func (r *Repo) LinkHistory(ctx context.Context, username string) (map[string]int, error) {
	rows, err := r.db.QueryContext(ctx, linkHistorySQL, username)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := map[string]int{}
	for rows.Next() {
		var (
			link   string
			clicks int
		)
		if err := rows.Scan(&link, &clicks); err != nil {
			return nil, err
		}
		out[link] = clicks
	}
	return out, rows.Err()
}

func (r *Repo) ClearLinkHistory(ctx context.Context, username string) error {
	_, err := r.db.ExecContext(ctx, clearLinkHistorySQL, username)
	return err
}
