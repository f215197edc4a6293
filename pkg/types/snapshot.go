package types

// StateSnapshot.state:
//   roster: Unit[]           // insertion order
//   view: Unit[]             // filtered by search_term, sorted by sort_keys
//   search_term: string
//   sort_keys: [string, string, string]
//   formation: { name: string, tiles: (Unit|null)[7][7], power: number }
//   can_undo, can_redo: boolean
//   undo_count, redo_count: number
//   share: string // "formation=...&units=..." query of the share link
//
// Unit:
//   id: string
//   name: string
//   level: 1..10
//   rarity: "Common" | "Rare" | "Epic" | "Legendary"
//   power: number
