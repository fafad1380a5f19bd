package mysql

const upsertHotelsPrefix = "INSERT INTO hotels\n  (hotelid, hotelname, address, lat, lng, rating, link)\nVALUES "

const upsertHotelsOnDup = " ON DUPLICATE KEY UPDATE\n" +
	"  hotelname = VALUES(hotelname),\n" +
	"  address   = VALUES(address),\n" +
	"  lat       = VALUES(lat),\n" +
	"  lng       = VALUES(lng),\n" +
	"  rating    = COALESCE(VALUES(rating), hotels.rating),\n" +
	"  link      = COALESCE(VALUES(link), hotels.link)\n"

const insertReviewsPrefix = "INSERT INTO reviews\n  (reviewid, hotelid, username, rating, title, body, dateposted)\nVALUES "

// COALESCE keeps the old value if the new one is NULL.
const insertReviewsOnDup = " ON DUPLICATE KEY UPDATE\n" +
	"  username   = COALESCE(VALUES(username), reviews.username),\n" +
	"  rating     = COALESCE(VALUES(rating), reviews.rating),\n" +
	"  title      = COALESCE(VALUES(title), reviews.title),\n" +
	"  body       = COALESCE(VALUES(body), reviews.body),\n" +
	"  dateposted = COALESCE(VALUES(dateposted), reviews.dateposted)\n"

// Hotels without reviews end up with a NULL rating.
const refreshRatingsSQL = `
UPDATE hotels h
LEFT JOIN (SELECT hotelid, AVG(rating) AS avg_rating FROM reviews GROUP BY hotelid) r
  ON r.hotelid = h.hotelid
SET h.rating = r.avg_rating
`

// -----------------------------------------------------------------------------
// READ QUERIES
// -----------------------------------------------------------------------------

const hotelColumns = `hotelid, hotelname, address, lat, lng, rating, link`

const getHotelSQL = `SELECT ` + hotelColumns + ` FROM hotels WHERE hotelid = ?`

const searchHotelsSQL = `SELECT ` + hotelColumns + ` FROM hotels WHERE hotelname LIKE ? ESCAPE '\\' ORDER BY hotelid`

const allHotelsSQL = `SELECT ` + hotelColumns + ` FROM hotels ORDER BY hotelid`

// Newest first; ties broken by id so pages never overlap.
const reviewsSliceSQL = `
SELECT username, title, body, dateposted
FROM reviews
WHERE hotelid = ?
ORDER BY dateposted DESC, reviewid
LIMIT ? OFFSET ?
`

const countReviewsSQL = `SELECT COUNT(*) FROM reviews WHERE hotelid = ?`

const favoriteIDsSQL = `SELECT hotelid FROM favorites WHERE username = ?`

const favoriteNamesSQL = `
SELECT h.hotelname
FROM favorites f
JOIN hotels h ON h.hotelid = f.hotelid
WHERE f.username = ?
ORDER BY h.hotelname
`

const deleteFavoriteSQL = `DELETE FROM favorites WHERE username = ? AND hotelid = ?`

const insertFavoriteSQL = `INSERT INTO favorites (username, hotelid) VALUES (?, ?)`

const clearFavoritesSQL = `DELETE FROM favorites WHERE username = ?`

const knownLinkSQL = `SELECT 1 FROM hotels WHERE link = ? LIMIT 1`

const recordClickSQL = `
INSERT INTO link_history (username, link, clicks) VALUES (?, ?, 1)
ON DUPLICATE KEY UPDATE clicks = clicks + 1
`

const linkHistorySQL = `SELECT link, clicks FROM link_history WHERE username = ?`

const clearLinkHistorySQL = `DELETE FROM link_history WHERE username = ?`
