package feed

import "sort"

// eventInterval is how many posts are emitted between event slots.
// Interleaving counts posts, not output positions, so the event
// frequency tracks content volume regardless of where events land in
// score order.
const eventInterval = 5

// Merge combines one scored post page and one scored event page into
// the final emission order.
//
// The combined set is first sorted by score descending (ties: newer
// first, stable). That ordering decides relative standing within
// each type, not the final output order. The sorted set is then
// partitioned back into posts and events, and posts are emitted in
// order with the next unused event spliced in after every 5th post.
// Events left over when the posts run out are appended at the tail,
// so no fetched event is ever dropped from a page.
func Merge(posts []*ScoredPost, events []*ScoredEvent) []Item {
	combined := make([]Item, 0, len(posts)+len(events))
	for _, p := range posts {
		combined = append(combined, Item{Type: TypePost, Post: p})
	}
	for _, e := range events {
		combined = append(combined, Item{Type: TypeEvent, Event: e})
	}

	sort.SliceStable(combined, func(i, j int) bool {
		if combined[i].Score() != combined[j].Score() {
			return combined[i].Score() > combined[j].Score()
		}
		return combined[i].SortKey().After(combined[j].SortKey())
	})

	// Partition preserving the sorted order.
	var rankedPosts, rankedEvents []Item
	for _, it := range combined {
		if it.Type == TypePost {
			rankedPosts = append(rankedPosts, it)
		} else {
			rankedEvents = append(rankedEvents, it)
		}
	}

	out := make([]Item, 0, len(combined))
	nextEvent := 0
	for n, p := range rankedPosts {
		out = append(out, p)
		if (n+1)%eventInterval == 0 && nextEvent < len(rankedEvents) {
			out = append(out, rankedEvents[nextEvent])
			nextEvent++
		}
	}
	for ; nextEvent < len(rankedEvents); nextEvent++ {
		out = append(out, rankedEvents[nextEvent])
	}
	return out
}
