package castkit

import (
	"fmt"
	"strconv"
	"strings"
)

// Describe pretty-prints the type expected by n, as used in error messages:
// "an optional X" for Union(Undefined, X), "one of [...]" for other unions and
// enums, the reference name for references.
func Describe(n Node) string {
	switch t := n.(type) {
	case *UnionNode:
		if len(t.Members) == 2 && isUndefined(t.Members[0]) {
			return "an optional " + Describe(t.Members[1])
		}
		parts := make([]string, len(t.Members))
		for i, m := range t.Members {
			parts[i] = Describe(m)
		}
		return "one of [" + strings.Join(parts, ", ") + "]"
	case *EnumNode:
		parts := make([]string, len(t.Cases))
		for i, c := range t.Cases {
			parts[i] = strconv.Quote(c)
		}
		return "one of [" + strings.Join(parts, ", ") + "]"
	case *LiteralNode:
		return fmt.Sprint(t.Value)
	case *PrimitiveNode:
		return t.Kind.String()
	case *ArrayNode:
		return "array"
	case *ObjectNode, *MapNode:
		return "object"
	case *RefNode:
		return t.Name
	case *AnyNode:
		return "any"
	case *DateNode:
		return "Date"
	default:
		panic(fmt.Sprintf("castkit: unsupported node %T", n))
	}
}

func isUndefined(n Node) bool {
	p, ok := n.(*PrimitiveNode)
	return ok && p.Kind == KindUndefined
}
