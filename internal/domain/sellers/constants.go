package sellers

const SearchLimit = 20
