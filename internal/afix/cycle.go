package afix

import (
	"github.com/qcrbox/shelxcif/internal/site"
)

// attachmentGraph maps each atom label to its attachment targets.
// Well-formed records give every atom at most one target; the checker
// works on the general shape so the cycle path can always be rebuilt.
type attachmentGraph struct {
	nodes []string
	edges map[string][]string
}

// buildAttachmentGraph collects the directed attachment edges, child to
// parent, keeping nodes in record order for deterministic reporting.
func buildAttachmentGraph(records []site.AtomRecord) attachmentGraph {
	graph := attachmentGraph{edges: make(map[string][]string, len(records))}
	for _, rec := range records {
		graph.nodes = append(graph.nodes, rec.Label)
		if rec.AttachedTo != "" {
			graph.edges[rec.Label] = append(graph.edges[rec.Label], rec.AttachedTo)
		}
	}
	return graph
}

// findAttachmentCycle returns the labels along one attachment cycle, the
// first label repeated at the end, or nil when the graph is a forest.
func findAttachmentCycle(records []site.AtomRecord) []string {
	graph := buildAttachmentGraph(records)
	for _, scc := range tarjanSCC(graph) {
		if len(scc) > 1 || hasSelfLoop(scc[0], graph) {
			return cyclePath(scc, graph)
		}
	}
	return nil
}

// hasSelfLoop checks if a node is attached to itself.
func hasSelfLoop(node string, graph attachmentGraph) bool {
	for _, neighbor := range graph.edges[node] {
		if neighbor == node {
			return true
		}
	}
	return false
}

// tarjanSCC finds strongly connected components of the attachment graph.
// Single-node components without self-loops are not cycles.
func tarjanSCC(graph attachmentGraph) [][]string {
	var (
		index   = 0
		stack   []string
		indices = make(map[string]int)
		lowlink = make(map[string]int)
		onStack = make(map[string]bool)
		sccs    [][]string
	)

	var strongConnect func(string)
	strongConnect = func(v string) {
		indices[v] = index
		lowlink[v] = index
		index++
		stack = append(stack, v)
		onStack[v] = true

		for _, w := range graph.edges[v] {
			if _, visited := indices[w]; !visited {
				strongConnect(w)
				lowlink[v] = min(lowlink[v], lowlink[w])
			} else if onStack[w] {
				lowlink[v] = min(lowlink[v], indices[w])
			}
		}

		if lowlink[v] == indices[v] {
			var scc []string
			for {
				w := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				onStack[w] = false
				scc = append(scc, w)
				if w == v {
					break
				}
			}
			sccs = append(sccs, scc)
		}
	}

	for _, node := range graph.nodes {
		if _, visited := indices[node]; !visited {
			strongConnect(node)
		}
	}

	return sccs
}

// cyclePath walks one traversal of a strongly connected component,
// returning to its starting label.
func cyclePath(scc []string, graph attachmentGraph) []string {
	if len(scc) == 1 {
		return []string{scc[0], scc[0]}
	}

	sccSet := make(map[string]bool, len(scc))
	for _, node := range scc {
		sccSet[node] = true
	}

	start := scc[0]
	current := start
	path := []string{current}
	visited := make(map[string]bool)

	for {
		visited[current] = true

		var next string
		for _, neighbor := range graph.edges[current] {
			if sccSet[neighbor] && (!visited[neighbor] || neighbor == start) {
				next = neighbor
				break
			}
		}

		if next == "" {
			break
		}

		path = append(path, next)
		if next == start {
			break
		}
		current = next
	}

	return path
}
