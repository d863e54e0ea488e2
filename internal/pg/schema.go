package pg

// DDL предметных таблиц, которые подразумевают документ метаданных
// и запросы отчётов. Idempotent: create ... if not exists.
// FK на справочные коды сознательно нет: удаление идёт по естественным
// ключам из delete_map, и база не должна блокировать оператора.

// DomainDDL возвращает карту "ключ сортировки -> SQL".
// Ключи упорядочивают применение: сначала справочники, затем связки.
func DomainDDL() map[string]string {
	return map[string]string{
		"010_stations": `
create table if not exists stations (
  station_code bigint not null,
  name         text   not null,
  city         text   not null,
  inn          varchar(10) not null
);
create unique index if not exists stations_station_code_uq on stations(station_code);`,

		"020_brigades": `
create table if not exists brigades (
  brigade_code bigint not null,
  name         text   not null
);
create unique index if not exists brigades_brigade_code_uq on brigades(brigade_code);`,

		"030_routes": `
create table if not exists routes (
  route_code             bigint not null,
  departure_station_code bigint not null,
  arrival_station_code   bigint not null,
  departure_time         timestamp not null,
  arrival_time           timestamp not null
);
create unique index if not exists routes_route_code_uq on routes(route_code);`,

		"040_route_brigades": `
create table if not exists route_brigades (
  route_code   bigint not null,
  brigade_code bigint not null
);
create unique index if not exists route_brigades_pair_uq on route_brigades(route_code, brigade_code);`,

		"050_staff": `
create table if not exists staff (
  inn              varchar(12) not null,
  full_name        text not null,
  gender           varchar(1) not null,
  experience_years bigint not null,
  brigade_code     bigint not null
);
create unique index if not exists staff_inn_uq on staff(inn);`,

		// Выдача идёт по логическому имени таблицы из документа метаданных,
		// запись — в main_table. Логическое имя обязано существовать как
		// отношение, поэтому для таблиц с main_table создаётся представление.
		"060_logical_names": `
create or replace view brigade_routes as select * from route_brigades;
create or replace view staff_details as select * from staff;`,
	}
}
