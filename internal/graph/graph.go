// Package graph derives the user interaction network of a project: who
// replied to whom, how often, and which users sit at the center of it.
package graph

import (
	"math"
	"sort"

	"commentpulse/internal/models"
)

// Node is one user in the reply network.
type Node struct {
	ID        string  `json:"id"`
	InDegree  int     `json:"in_degree"`
	OutDegree int     `json:"out_degree"`
	PageRank  float64 `json:"pagerank"`
	Community int     `json:"community"`
}

// Link is a directed reply edge: Source replied to Target Weight times.
type Link struct {
	Source string `json:"source"`
	Target string `json:"target"`
	Weight int    `json:"weight"`
}

// Network is the serializable node-link form of a project's reply graph.
type Network struct {
	Nodes []Node `json:"nodes"`
	Links []Link `json:"links"`
}

const (
	pagerankDamping    = 0.85
	pagerankIterations = 30
	labelPropRounds    = 10
)

// Build derives the reply network from a project's comments. An edge runs
// from a reply's author to the parent comment's author; self-replies and
// replies whose parent is not in the batch contribute no edge. Users appear
// as nodes only when they touch at least one edge.
func Build(comments []*models.Comment) *Network {
	byCID := make(map[string]*models.Comment, len(comments))
	for _, c := range comments {
		byCID[c.CID] = c
	}

	type edgeKey struct{ src, dst string }
	weights := make(map[edgeKey]int)
	for _, c := range comments {
		if c.ParentCID == "" {
			continue
		}
		parent, ok := byCID[c.ParentCID]
		if !ok {
			continue
		}
		if c.Username == parent.Username {
			continue
		}
		weights[edgeKey{src: c.Username, dst: parent.Username}]++
	}

	inDeg := make(map[string]int)
	outDeg := make(map[string]int)
	links := make([]Link, 0, len(weights))
	for key, w := range weights {
		links = append(links, Link{Source: key.src, Target: key.dst, Weight: w})
		outDeg[key.src] += w
		inDeg[key.dst] += w
	}
	adjacency := buildAdjacency(links)
	sort.Slice(links, func(i, j int) bool {
		if links[i].Source != links[j].Source {
			return links[i].Source < links[j].Source
		}
		return links[i].Target < links[j].Target
	})

	users := make([]string, 0, len(adjacency))
	for user := range adjacency {
		users = append(users, user)
	}
	sort.Strings(users)

	ranks := pagerank(users, links)
	communities := labelPropagation(users, adjacency)

	nodes := make([]Node, 0, len(users))
	for _, user := range users {
		nodes = append(nodes, Node{
			ID:        user,
			InDegree:  inDeg[user],
			OutDegree: outDeg[user],
			PageRank:  ranks[user],
			Community: communities[user],
		})
	}
	return &Network{Nodes: nodes, Links: links}
}

// buildAdjacency collapses the directed links into an undirected neighbor
// map. Each neighbor appears exactly once per node, so a reciprocal pair of
// links carries the same weight as a single one during label propagation.
func buildAdjacency(links []Link) map[string][]string {
	neighbors := make(map[string]map[string]bool)
	add := func(a, b string) {
		if neighbors[a] == nil {
			neighbors[a] = make(map[string]bool)
		}
		neighbors[a][b] = true
	}
	for _, l := range links {
		add(l.Source, l.Target)
		add(l.Target, l.Source)
	}

	adjacency := make(map[string][]string, len(neighbors))
	for user, set := range neighbors {
		list := make([]string, 0, len(set))
		for n := range set {
			list = append(list, n)
		}
		sort.Strings(list)
		adjacency[user] = list
	}
	return adjacency
}

// pagerank runs weighted power iteration over the directed edges. Dangling
// mass is redistributed uniformly so the ranks still sum to one.
func pagerank(users []string, links []Link) map[string]float64 {
	n := len(users)
	ranks := make(map[string]float64, n)
	if n == 0 {
		return ranks
	}

	outWeight := make(map[string]int, n)
	for _, l := range links {
		outWeight[l.Source] += l.Weight
	}
	for _, u := range users {
		ranks[u] = 1.0 / float64(n)
	}

	for iter := 0; iter < pagerankIterations; iter++ {
		next := make(map[string]float64, n)
		dangling := 0.0
		for _, u := range users {
			if outWeight[u] == 0 {
				dangling += ranks[u]
			}
		}
		base := (1-pagerankDamping)/float64(n) + pagerankDamping*dangling/float64(n)
		for _, u := range users {
			next[u] = base
		}
		for _, l := range links {
			share := ranks[l.Source] * float64(l.Weight) / float64(outWeight[l.Source])
			next[l.Target] += pagerankDamping * share
		}

		delta := 0.0
		for _, u := range users {
			delta += math.Abs(next[u] - ranks[u])
		}
		ranks = next
		if delta < 1e-9 {
			break
		}
	}
	return ranks
}

// labelPropagation assigns community ids by repeatedly adopting the most
// common label among a node's neighbors. Deterministic: users iterate in
// sorted order and label ties break toward the smaller id.
func labelPropagation(users []string, adjacency map[string][]string) map[string]int {
	labels := make(map[string]int, len(users))
	for i, u := range users {
		labels[u] = i
	}

	for round := 0; round < labelPropRounds; round++ {
		changed := false
		for _, u := range users {
			counts := make(map[int]int)
			for _, neighbor := range adjacency[u] {
				counts[labels[neighbor]]++
			}
			best, bestCount := labels[u], 0
			for label, count := range counts {
				if count > bestCount || (count == bestCount && label < best) {
					best, bestCount = label, count
				}
			}
			if best != labels[u] {
				labels[u] = best
				changed = true
			}
		}
		if !changed {
			break
		}
	}

	// Renumber to small consecutive ids.
	seen := make(map[int]int)
	for _, u := range users {
		if _, ok := seen[labels[u]]; !ok {
			seen[labels[u]] = len(seen)
		}
		labels[u] = seen[labels[u]]
	}
	return labels
}
