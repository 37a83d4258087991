package sqlite

// Schema DDL. Creation is idempotent so reopening an existing database file
// keeps its rows.
const createRecipes = `CREATE TABLE IF NOT EXISTS recipes (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    date_published TEXT NOT NULL,
    description TEXT NOT NULL,
    rating REAL,
    prep_time TEXT NOT NULL,
    cook_time TEXT NOT NULL,
    ingredients TEXT NOT NULL,
    instructions TEXT NOT NULL,
    serving_size TEXT NOT NULL,
    calories REAL NOT NULL
);`
