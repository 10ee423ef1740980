package scratch

import (
	"context"
	"errors"
	"fmt"
	"html"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"
)

// ErrFeedUnavailable is returned when the comment feed cannot be fetched,
// typically because the account is suspended or the site is down.
var ErrFeedUnavailable = errors.New("comment feed unavailable")

// Comment is one top-level comment on a user's profile.
type Comment struct {
	Author string
	Body   string
}

// commentRegexp matches top-level comment blocks in the site-api HTML
// fragment. Replies carry class="comment reply" and never match. The anchor
// text is captured separately from the href username because RE2 has no
// backreferences; parseComments enforces that they agree.
var commentRegexp = regexp.MustCompile(`(?s)<div id="comments-\d+" class="comment\s*" data-comment-id="\d+">.*?<div class="name">\s*<a href="/users/([_a-zA-Z0-9-]+)">([^<]*)</a>\s*</div>\s*<div class="content">(.*?)</div>`)

// FetchComments returns the user's top-level profile comments in document
// order. An empty feed returns an empty slice; a non-success response
// returns ErrFeedUnavailable.
func (c *Client) FetchComments(ctx context.Context, username string) ([]Comment, error) {
	// salt busts any intermediate cache, same trick the site's own JS uses
	feedURL := fmt.Sprintf("%s/site-api/comments/user/%s/?page=1&salt=%d",
		c.siteBase, url.PathEscape(username), time.Now().Unix())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feedURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFeedUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrFeedUnavailable, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFeedUnavailable, err)
	}

	return parseComments(string(body)), nil
}

func parseComments(fragment string) []Comment {
	fragment = strings.TrimSpace(fragment)
	if fragment == "" {
		return nil
	}

	comments := []Comment{}
	for _, m := range commentRegexp.FindAllStringSubmatch(fragment, -1) {
		// the visible name must echo the profile link or the block is not a
		// genuine comment header
		if m[1] != strings.TrimSpace(m[2]) {
			continue
		}
		comments = append(comments, Comment{
			Author: m[1],
			Body:   html.UnescapeString(strings.TrimSpace(m[3])),
		})
	}
	return comments
}
