package mcpserver

// RecordingRolesContract describes the three recording roles that LLM
// consumers must choose from when recording memories.
const RecordingRolesContract = `# Murmur Recording Roles

Every memory is classified as exactly one of three roles. Pick the role
before recording; it is mutable afterwards, but the graph only considers
pointers.

## soundmark

A distinctive, location-identifying sound. The acoustic signature of a
place: the specific church bell, the foghorn, the squeaky gate. If a
listener could name the place from the clip alone, it is a soundmark.

## keynote

An ambient or background sound characterizing a place's atmosphere:
traffic hum, rustling leaves, cafe chatter. Keynotes set the scene rather
than identify it.

## pointer

A recording that defines a directed traversal edge between two locations:
it is recorded AT its location and leads TO its destination. Pointers are
what make soundwalks navigable.

Rules:

1. ` + "`" + `destination` + "`" + ` is only meaningful on pointers and is ignored elsewhere.
2. A pointer with an empty location or destination is stored but produces
   no graph edge.
3. Location names are matched by exact (trimmed, case-sensitive) equality.
   Always call ` + "`" + `suggest_locations` + "`" + ` before introducing a name: "Oak Park"
   and "oak park" are silently distinct locations.
`
