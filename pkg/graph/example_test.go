package graph_test

import (
	"bytes"
	"fmt"

	perrors "github.com/matzehuels/pedigree/pkg/errors"
	"github.com/matzehuels/pedigree/pkg/graph"
	"github.com/matzehuels/pedigree/pkg/pedigree"
)

func ExampleWrite() {
	doc := pedigree.NewDocument()
	doc.Nodes = append(doc.Nodes, pedigree.Individual{
		ID: "node_0", Kind: pedigree.KindFemale,
		Position: pedigree.Point{X: 10, Y: 20},
		Width:    50, Height: 50, Label: "Female",
		Status: pedigree.Status{Proband: true},
	})

	var buf bytes.Buffer
	if err := graph.Write(doc, &buf); err != nil {
		fmt.Println("Error:", err)
		return
	}
	fmt.Print(buf.String())
	// Output:
	// {
	//   "version": 1,
	//   "nodes": [
	//     {
	//       "id": "node_0",
	//       "type": "female",
	//       "position": {
	//         "x": 10,
	//         "y": 20
	//       },
	//       "data": {
	//         "label": "Female",
	//         "isAffected": false,
	//         "isCarrier": false,
	//         "isDeceased": false,
	//         "isProband": true
	//       },
	//       "style": {
	//         "width": 50,
	//         "height": 50
	//       }
	//     }
	//   ],
	//   "edges": [],
	//   "viewport": {
	//     "x": 0,
	//     "y": 0,
	//     "zoom": 1
	//   }
	// }
}

func ExampleDecode() {
	data := []byte(`{
		"nodes": [
			{"id": "node_0", "type": "male", "position": {"x": 0, "y": 0}, "data": {"label": "Male"}, "style": {}},
			{"id": "node_1", "type": "unknown", "position": {"x": 5, "y": 130}, "data": {"label": "Child"}, "style": {}}
		],
		"edges": [
			{"id": "edge_2", "source": "node_0", "target": "node_1", "style": {"strokeDasharray": "5,5"}}
		]
	}`)

	alloc := pedigree.NewAllocator()
	doc, err := graph.Decode(data, graph.WithAllocator(alloc))
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	e := doc.Edges[0]
	fmt.Println(e.SourceHandle, "->", e.TargetHandle, e.Style)
	fmt.Println(doc.Nodes[1].Width, doc.Viewport.Zoom)
	fmt.Println("next:", alloc.NodeID())
	// Output:
	// b -> t uncertain
	// 40 1
	// next: node_3
}

func ExampleProbe() {
	err := graph.Probe([]byte(`{"nodes": [], "edges": "none"}`))
	fmt.Println(perrors.GetCode(err), perrors.UserMessage(err))
	// Output:
	// INVALID_STRUCTURE invalid file structure
}
